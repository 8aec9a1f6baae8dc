package agents

import "strings"

const maxSkills = 20

// RegisterCommand contains the data required to register a new agent.
type RegisterCommand struct {
	PublicKey    string       `json:"public_key"`
	Name         string       `json:"name"`
	Handle       string       `json:"handle"`
	Tagline      string       `json:"tagline"`
	Bio          string       `json:"bio"`
	Skills       []string     `json:"skills"`
	Seeking      []string     `json:"seeking"`
	Capabilities Capabilities `json:"capabilities"`
	Style        Style        `json:"style"`
	Boundaries   Boundaries   `json:"boundaries"`
}

// UpdateProfileCommand contains the profile fields an agent may change after
// registration. Nil pointers leave the field untouched. The public key,
// status, verification level, and reputation are never client-writable.
type UpdateProfileCommand struct {
	Name         *string       `json:"name,omitempty"`
	Handle       *string       `json:"handle,omitempty"`
	Tagline      *string       `json:"tagline,omitempty"`
	Bio          *string       `json:"bio,omitempty"`
	Skills       []string      `json:"skills,omitempty"`
	Seeking      []string      `json:"seeking,omitempty"`
	Capabilities *Capabilities `json:"capabilities,omitempty"`
	Style        *Style        `json:"style,omitempty"`
	Boundaries   *Boundaries   `json:"boundaries,omitempty"`
}

// NormalizeTags lowercases, trims, deduplicates, and caps a tag list,
// preserving first-seen order. Used for both skills and seeking.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxSkills {
			break
		}
	}
	return out
}

func validStyle(s Style) bool {
	for _, v := range []int{s.Terseness, s.Cautiousness, s.Creativity} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}
