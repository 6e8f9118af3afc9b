package models

import "time"

// SettingCategoryAPIIntegration is the category under which third-party API
// credential sets are stored and looked up for operational use.
const SettingCategoryAPIIntegration = "api_integration"

// Setting is one named, keyed configuration entry: third-party API credentials,
// system settings, and similar admin-managed blobs. The document ID in
// Firestore is the Key.
type Setting struct {
	Key          string         `json:"key" firestore:"key"`
	APIType      string         `json:"apiType,omitempty" firestore:"apiType,omitempty"`
	InstanceName string         `json:"instanceName,omitempty" firestore:"instanceName,omitempty"`
	Category     string         `json:"category" firestore:"category"`
	// Label is always written, even when empty: listings order by label, and
	// Firestore's orderBy drops documents that lack the ordered field.
	Label       string         `json:"label,omitempty" firestore:"label"`
	Description string         `json:"description,omitempty" firestore:"description,omitempty"`
	Value       map[string]any `json:"value" firestore:"value"`
	IsEncrypted bool           `json:"isEncrypted" firestore:"isEncrypted"`
	IsActive    bool           `json:"isActive" firestore:"isActive"`
	CreatedAt   time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

// Clone returns a deep-enough copy of the setting for safe mutation: the Value
// map is copied one level deep, which covers every field the vault writes.
func (s *Setting) Clone() *Setting {
	out := *s
	if s.Value != nil {
		out.Value = make(map[string]any, len(s.Value))
		for k, v := range s.Value {
			out.Value[k] = v
		}
	}
	return &out
}

// AmazonCredentials is the typed subset of an Amazon PA-API integration used by
// backend code that signs outbound requests and builds affiliate URLs.
type AmazonCredentials struct {
	Region     string `json:"region"`
	AccessKey  string `json:"accessKey"`
	SecretKey  string `json:"secretKey"`
	PartnerTag string `json:"partnerTag"`
}
