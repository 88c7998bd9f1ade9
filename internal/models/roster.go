package models

// RosterColumns is the column contract of the auth roster export and of the
// cleaned auth_data output table.
var RosterColumns = []string{"user_id", "email", "creation_date", "last_sign_in"}

// AuthRecord is one row of the flat authentication roster. Timestamps are
// kept as the raw strings from the export; they are parsed only for
// validation, never rewritten.
type AuthRecord struct {
	UserID       string `json:"user_id" bson:"user_id"`
	Email        string `json:"email" bson:"email"`
	CreationDate string `json:"creation_date" bson:"creation_date"`
	LastSignIn   string `json:"last_sign_in" bson:"last_sign_in"`
}

// Fields returns the record's values in RosterColumns order.
func (r AuthRecord) Fields() []string {
	return []string{r.UserID, r.Email, r.CreationDate, r.LastSignIn}
}
