package domain

// CommunicationStyle is the tone the AI collaborator writes in
type CommunicationStyle string

const (
	StyleVeryPolite CommunicationStyle = "非常に丁寧"
	StylePolite     CommunicationStyle = "丁寧"
	StyleCasual     CommunicationStyle = "ややカジュアル"
)

// Valid reports whether s is one of the known styles
func (s CommunicationStyle) Valid() bool {
	switch s {
	case StyleVeryPolite, StylePolite, StyleCasual:
		return true
	}
	return false
}

// KnowledgeItem is one key/value fact injected into AI prompts and
// available as a {{key}} template placeholder
type KnowledgeItem struct {
	ID    string `json:"id" toml:"id"`
	Key   string `json:"key" toml:"key"`
	Value string `json:"value" toml:"value"`
}

// AppSettings is the workspace-wide configuration edited from the settings view
type AppSettings struct {
	EventName          string             `json:"eventName" toml:"event_name"`
	WebsiteURL         string             `json:"websiteUrl" toml:"website_url"`
	OfficeName         string             `json:"officeName" toml:"office_name"`
	EventSummary       string             `json:"eventSummary" toml:"event_summary"`
	Signature          string             `json:"signature" toml:"signature"`
	CommunicationStyle CommunicationStyle `json:"communicationStyle" toml:"communication_style"`
	KnowledgeBase      []KnowledgeItem    `json:"knowledgeBase" toml:"knowledge_base"`
}

// SettingsPatch carries the fields present in a settings update.
// Absent fields keep their current value.
type SettingsPatch struct {
	EventName          *string             `json:"eventName,omitempty"`
	WebsiteURL         *string             `json:"websiteUrl,omitempty"`
	OfficeName         *string             `json:"officeName,omitempty"`
	EventSummary       *string             `json:"eventSummary,omitempty"`
	Signature          *string             `json:"signature,omitempty"`
	CommunicationStyle *CommunicationStyle `json:"communicationStyle,omitempty"`
	KnowledgeBase      *[]KnowledgeItem    `json:"knowledgeBase,omitempty"`
}

// Empty reports whether the patch carries no field at all
func (p SettingsPatch) Empty() bool {
	return p.EventName == nil && p.WebsiteURL == nil && p.OfficeName == nil &&
		p.EventSummary == nil && p.Signature == nil && p.CommunicationStyle == nil &&
		p.KnowledgeBase == nil
}

// Apply returns a copy of s with every present field of p written over it
func (s AppSettings) Apply(p SettingsPatch) AppSettings {
	if p.EventName != nil {
		s.EventName = *p.EventName
	}
	if p.WebsiteURL != nil {
		s.WebsiteURL = *p.WebsiteURL
	}
	if p.OfficeName != nil {
		s.OfficeName = *p.OfficeName
	}
	if p.EventSummary != nil {
		s.EventSummary = *p.EventSummary
	}
	if p.Signature != nil {
		s.Signature = *p.Signature
	}
	if p.CommunicationStyle != nil {
		s.CommunicationStyle = *p.CommunicationStyle
	}
	if p.KnowledgeBase != nil {
		kb := make([]KnowledgeItem, len(*p.KnowledgeBase))
		copy(kb, *p.KnowledgeBase)
		s.KnowledgeBase = kb
	}
	return s
}

// DefaultSettings mirrors the workspace an event office starts with
func DefaultSettings() AppSettings {
	return AppSettings{
		EventName:          "Next-Gen Tech Summit 2024",
		WebsiteURL:         "https://example.com/summit2024",
		OfficeName:         "Next-Gen Tech Summit 事務局",
		EventSummary:       "最新技術の動向を紹介するカンファレンスと展示会",
		Signature:          "Next-Gen Tech Summit 2024 事務局\nsupport@example.com",
		CommunicationStyle: StylePolite,
		KnowledgeBase:      []KnowledgeItem{},
	}
}
