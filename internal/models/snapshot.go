package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Snapshot is one full export of the hierarchical user-record store,
// keyed by user ID. It is loaded once per pipeline run and treated as
// immutable for the duration of the run.
type Snapshot map[string]UserRecord

// UserRecord is a single entry in the raw snapshot. Records without a
// userInfo block are ineligible for every output table.
type UserRecord struct {
	UserInfo *UserInfo `json:"userInfo"`
}

// UserInfo holds the demographic fields, the optional receipt list and the
// gym-preference field of a user. The preference field has appeared under
// several names over the app's history; each candidate is kept as raw JSON
// so that presence, null and type can be told apart.
type UserInfo struct {
	Email   string `json:"email"`
	Country any    `json:"country"`
	City    any    `json:"city"`
	Height  any    `json:"height"`
	Weight  any    `json:"weight"`
	Gender  any    `json:"gender"`
	Age     any    `json:"age"`
	Active  any    `json:"active"`
	Level   any    `json:"level"`

	MyGym                 json.RawMessage `json:"myGym"`
	MyGymPreferences      json.RawMessage `json:"myGymPreferences"`
	GymPreferences        json.RawMessage `json:"gymPreferences"`
	MyGymPreferencesSnake json.RawMessage `json:"my_gym_preferences"`

	LatestReceiptInfo []json.RawMessage `json:"latestReceiptInfo"`
}

// PreferenceFieldNames lists the legacy names of the gym-preference field in
// lookup priority order. The first present, non-null field wins.
var PreferenceFieldNames = []string{"myGym", "myGymPreferences", "gymPreferences", "my_gym_preferences"}

// PreferenceField returns the raw value of the highest-priority preference
// field that is present and not JSON null, together with the field name it
// was found under.
func (u *UserInfo) PreferenceField() (name string, raw json.RawMessage, ok bool) {
	candidates := []json.RawMessage{u.MyGym, u.MyGymPreferences, u.GymPreferences, u.MyGymPreferencesSnake}
	for i, c := range candidates {
		if c == nil || bytes.Equal(bytes.TrimSpace(c), []byte("null")) {
			continue
		}
		return PreferenceFieldNames[i], c, true
	}
	return "", nil, false
}

// Transaction is one purchase receipt under a user record. Timestamps are
// epoch milliseconds and arrive as either JSON numbers or strings, so they
// are kept as-is and only interpreted during validation.
type Transaction struct {
	PurchaseDateMs         any `json:"purchase_date_ms"`
	ExpiresDateMs          any `json:"expires_date_ms"`
	OriginalPurchaseDateMs any `json:"original_purchase_date_ms"`
	ProductID              any `json:"product_id"`
}

// SortedIDs returns the snapshot's user IDs in lexicographic order. The
// builders iterate this order so that audit output is deterministic across
// runs over the same snapshot.
func (s Snapshot) SortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseSnapshot decodes a raw snapshot export. Numbers are decoded as
// json.Number so that epoch-millisecond values survive round-tripping into
// the output tables without float formatting.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// DecodeTransaction attempts to decode one latestReceiptInfo entry into a
// Transaction. Entries that are not JSON objects fail here and are counted
// as invalid by the subscriptions builder.
func DecodeTransaction(raw json.RawMessage) (*Transaction, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var tx Transaction
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&tx); err != nil {
		return nil, false
	}
	return &tx, true
}
