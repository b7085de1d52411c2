package models

// PrefMinConfidenceThreshold is the preference key read by the confidence gate.
const PrefMinConfidenceThreshold = "min_confidence_threshold"

// Preference is one (user, key) -> scalar setting.
type Preference struct {
	UserID string      `json:"user_id" validate:"required,max=128"`
	Key    string      `json:"pref_key" validate:"required,max=128"`
	Value  interface{} `json:"pref_value" validate:"required"`
}
