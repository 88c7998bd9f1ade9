package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Column contracts of the processed output tables. Order and names are part
// of the contract for downstream consumers.
var (
	SubscriptionColumns  = []string{"user_id", "purchase_date", "expiration_date", "original_purchase_date", "product_id", "num_transactions"}
	ProfileColumns       = []string{"user_id", "email", "country", "city", "height", "weight", "gender", "age", "active", "level"}
	GymPreferenceColumns = []string{"user_id", "creation_date", "preferences", "translated"}
)

// SubscriptionRow is one row of the subscriptions table: one row per receipt
// entry, so a user with several transactions appears several times.
// Timestamp fields carry the raw epoch-millisecond values from the snapshot.
type SubscriptionRow struct {
	UserID               string `json:"user_id" bson:"user_id"`
	PurchaseDate         any    `json:"purchase_date" bson:"purchase_date"`
	ExpirationDate       any    `json:"expiration_date" bson:"expiration_date"`
	OriginalPurchaseDate any    `json:"original_purchase_date" bson:"original_purchase_date"`
	ProductID            any    `json:"product_id" bson:"product_id"`
	NumTransactions      int    `json:"num_transactions" bson:"num_transactions"`
}

// Fields returns the row's values in SubscriptionColumns order.
func (r SubscriptionRow) Fields() []string {
	return []string{
		r.UserID,
		RenderValue(r.PurchaseDate),
		RenderValue(r.ExpirationDate),
		RenderValue(r.OriginalPurchaseDate),
		RenderValue(r.ProductID),
		strconv.Itoa(r.NumTransactions),
	}
}

// ProfileRow is one row of the user_profiles table. Demographic fields keep
// whatever type the snapshot held (height in particular may be a number or a
// stray string; type mismatches are flagged but the value is retained).
type ProfileRow struct {
	UserID  string `json:"user_id" bson:"user_id"`
	Email   string `json:"email" bson:"email"`
	Country any    `json:"country" bson:"country"`
	City    any    `json:"city" bson:"city"`
	Height  any    `json:"height" bson:"height"`
	Weight  any    `json:"weight" bson:"weight"`
	Gender  any    `json:"gender" bson:"gender"`
	Age     any    `json:"age" bson:"age"`
	Active  any    `json:"active" bson:"active"`
	Level   any    `json:"level" bson:"level"`
}

// Fields returns the row's values in ProfileColumns order.
func (r ProfileRow) Fields() []string {
	return []string{
		r.UserID,
		r.Email,
		RenderValue(r.Country),
		RenderValue(r.City),
		RenderValue(r.Height),
		RenderValue(r.Weight),
		RenderValue(r.Gender),
		RenderValue(r.Age),
		RenderValue(r.Active),
		RenderValue(r.Level),
	}
}

// GymPreferenceRow is one row of the my_gym table. Preferences holds the
// deduplicated canonical codes joined with commas, Translated the matching
// equipment names (empty for codes outside the vocabulary). CreationDate is
// joined in from the cleaned auth table and empty when the user has no auth
// row.
type GymPreferenceRow struct {
	UserID       string `json:"user_id" bson:"user_id"`
	CreationDate string `json:"creation_date" bson:"creation_date"`
	Preferences  string `json:"preferences" bson:"preferences"`
	Translated   string `json:"translated" bson:"translated"`
}

// Fields returns the row's values in GymPreferenceColumns order.
func (r GymPreferenceRow) Fields() []string {
	return []string{r.UserID, r.CreationDate, r.Preferences, r.Translated}
}

// RenderValue renders a decoded JSON value for delimited output and audit
// details. json.Number keeps its source form, so epoch-millisecond values
// never pick up float formatting.
func RenderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
