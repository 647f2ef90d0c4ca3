package domain

import (
	"encoding/json"
	"unicode/utf8"
)

type IconKind string

const (
	IconDefault IconKind = "default"
	IconEmoji   IconKind = "emoji"
	IconGlyph   IconKind = "glyph"
)

// Icon is the parsed form of the single icon string persisted with spaces and
// lists. The raw value may be an emoji, the name of a glyph from the client's
// icon set, or empty. Parsing happens once here; nothing downstream
// re-interprets the raw string.
type Icon struct {
	Kind  IconKind `json:"kind"`
	Value string   `json:"value,omitempty"`
}

// ParseIcon classifies a raw icon string. An empty string is the default icon,
// a string whose first rune falls in an emoji block is an emoji, anything else
// is treated as a glyph name.
func ParseIcon(raw string) Icon {
	if raw == "" {
		return Icon{Kind: IconDefault}
	}
	r, _ := utf8.DecodeRuneInString(raw)
	if isEmojiRune(r) {
		return Icon{Kind: IconEmoji, Value: raw}
	}
	return Icon{Kind: IconGlyph, Value: raw}
}

// String returns the raw form that goes back into the store.
func (i Icon) String() string {
	return i.Value
}

func (i Icon) MarshalJSON() ([]byte, error) {
	type alias Icon
	return json.Marshal(alias(i))
}

func (i *Icon) UnmarshalJSON(data []byte) error {
	// Accept both the structured form and a bare string, which is what the
	// mobile client sends.
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*i = ParseIcon(raw)
		return nil
	}
	type alias Icon
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = Icon(a)
	return nil
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // misc symbols, emoticons, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and stars used as emoji
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r == 0x2139 || r == 0x24C2:
		return true
	}
	return false
}
