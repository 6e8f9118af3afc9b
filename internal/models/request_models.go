package models

// CreateSettingRequest represents the request body for creating a new setting.
// Key is optional: when absent, the service generates one from APIType.
type CreateSettingRequest struct {
	Key          string         `json:"key,omitempty"`
	APIType      string         `json:"apiType,omitempty"`
	InstanceName string         `json:"instanceName,omitempty"`
	Category     string         `json:"category" binding:"required"`
	Label        string         `json:"label,omitempty"`
	Description  string         `json:"description,omitempty"`
	Value        map[string]any `json:"value"`
	IsEncrypted  *bool          `json:"isEncrypted,omitempty"`
	IsActive     *bool          `json:"isActive,omitempty"`
}

// UpdateSettingRequest represents the request body for a partial update.
// Pointers distinguish "not provided" from an explicit empty value. Value is a
// partial map: for encrypted settings, blank incoming fields keep the stored
// secret (merge-on-update).
type UpdateSettingRequest struct {
	InstanceName *string        `json:"instanceName,omitempty"`
	Label        *string        `json:"label,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Value        map[string]any `json:"value,omitempty"`
	IsActive     *bool          `json:"isActive,omitempty"`
}
