package cleaning

// DefaultVocabulary is the fixed canonical preference vocabulary: short
// equipment code to human-readable equipment name. "D" and "KA" are legacy
// aliases that are always rewritten ("D" -> "DA", "KA" -> "K") but remain
// legal input and therefore carry translations of their own.
var DefaultVocabulary = map[string]string{
	"A":  "Full Gym",
	"N":  "Bodyweight",
	"DA": "Dumbbells",
	"KA": "Kettlebells",
	"K":  "Kettlebells",
	"B":  "Barbell & Plates",
	"C":  "Cable Machines",
	"J":  "Boxes",
	"M":  "Med Ball",
	"S":  "Swiss Ball",
	"R":  "Bands",
	"HB": "Hexbar",
	"H":  "Hexbar",
	"X":  "Back Extension Machine",
	"Y":  "Assault Bike",
	"P":  "Weighted Plate",
	"D":  "Dumbbells",
}
