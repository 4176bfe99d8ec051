package linkedin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/giantswarm/linkedin-oauth/providers"
)

// ErrorUserID is the ID of the placeholder user returned when the userinfo call fails.
const ErrorUserID = "error"

// UserResponse is the LinkedIn-shaped user record.
// Both variants produce it; the OIDC variant fills the localized names from flat claims.
type UserResponse struct {
	ID             string          `json:"id"`
	FirstName      LocalizedName   `json:"firstName"`
	LastName       LocalizedName   `json:"lastName"`
	ProfilePicture *ProfilePicture `json:"profilePicture,omitempty"`
	Email          string          `json:"email,omitempty"`
	EmailVerified  *bool           `json:"emailVerified,omitempty"`

	// Set only on the placeholder user returned for a failed userinfo call.
	Status           *int   `json:"status,omitempty"`
	ServiceErrorCode *int   `json:"serviceErrorCode,omitempty"`
	Code             string `json:"code,omitempty"`
	Message          string `json:"message,omitempty"`

	SimplifiedUser providers.SimplifiedUser `json:"simplified"`
}

// Simplified returns the normalized user record.
func (u *UserResponse) Simplified() providers.SimplifiedUser {
	return u.SimplifiedUser
}

// IsPlaceholder reports whether u stands in for a failed userinfo call.
func (u *UserResponse) IsPlaceholder() bool {
	return u.ID == ErrorUserID
}

// LocalizedName is a multi-locale name as returned by the v2 profile API.
type LocalizedName struct {
	Localized       LocalizedMap `json:"localized"`
	PreferredLocale Locale       `json:"preferredLocale"`
}

// Locale identifies a language and country pair.
type Locale struct {
	Country  string `json:"country"`
	Language string `json:"language"`
}

// defaultLocale is the locale attached to names that came from flat OIDC claims.
var defaultLocale = Locale{Country: "US", Language: "en"}

// defaultLocaleKey is the localized map key for defaultLocale.
const defaultLocaleKey = "en_US"

// ProfilePicture holds the profile picture reference and its expanded renditions.
type ProfilePicture struct {
	// DisplayImage is the picture URL (OIDC) or the digital media asset URN (legacy).
	DisplayImage string `json:"displayImage,omitempty"`

	// DisplayImageExpanded holds the renditions when the projection requested displayImage~.
	DisplayImageExpanded *DisplayImage `json:"displayImage~,omitempty"`
}

// DisplayImage is the expanded displayImage~ projection.
type DisplayImage struct {
	Elements []DisplayImageElement `json:"elements"`
}

// DisplayImageElement is one rendition of the profile picture.
type DisplayImageElement struct {
	Identifiers []ImageIdentifier `json:"identifiers"`
}

// ImageIdentifier locates a rendition.
type ImageIdentifier struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifierType"`
}

// URL returns the best URL for the picture.
// Renditions are ordered smallest first, so the last EXTERNAL_URL wins; the
// displayImage reference is the fallback. Returns "" when nothing is known.
func (pp *ProfilePicture) URL() string {
	if pp == nil {
		return ""
	}
	if pp.DisplayImageExpanded != nil {
		elements := pp.DisplayImageExpanded.Elements
		for i := len(elements) - 1; i >= 0; i-- {
			for _, id := range elements[i].Identifiers {
				if id.IdentifierType == "EXTERNAL_URL" && id.Identifier != "" {
					return id.Identifier
				}
			}
		}
	}
	return pp.DisplayImage
}

// LocalizedMap is a locale -> value map that remembers document order.
// LinkedIn does not guarantee the preferred locale comes first; callers that want
// "the first entry" get the first entry of the upstream JSON object.
type LocalizedMap struct {
	keys   []string
	values map[string]string
}

// NewLocalizedMap builds a LocalizedMap from alternating locale, value pairs.
func NewLocalizedMap(pairs ...string) LocalizedMap {
	var m LocalizedMap
	for i := 0; i+1 < len(pairs); i += 2 {
		m.set(pairs[i], pairs[i+1])
	}
	return m
}

func (m *LocalizedMap) set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for locale.
func (m LocalizedMap) Get(locale string) (string, bool) {
	v, ok := m.values[locale]
	return v, ok
}

// First returns the value of the first locale in document order, or "".
func (m LocalizedMap) First() string {
	if len(m.keys) == 0 {
		return ""
	}
	return m.values[m.keys[0]]
}

// Keys returns the locales in document order.
func (m LocalizedMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of locales.
func (m LocalizedMap) Len() int {
	return len(m.keys)
}

// UnmarshalJSON decodes a JSON object keeping key order. null decodes to an empty map.
func (m *LocalizedMap) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*m = LocalizedMap{}
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("localized name: expected object, got %s", res.Type)
	}

	var out LocalizedMap
	res.ForEach(func(key, value gjson.Result) bool {
		out.set(key.String(), value.String())
		return true
	})
	*m = out
	return nil
}

// MarshalJSON encodes the map as a JSON object in document order.
func (m LocalizedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// flatName builds the localized form of a name that came from an OIDC claim.
func flatName(value string) LocalizedName {
	return LocalizedName{
		Localized:       NewLocalizedMap(defaultLocaleKey, value),
		PreferredLocale: defaultLocale,
	}
}

// stringPtr returns nil for "" so optional URLs serialize as null.
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
