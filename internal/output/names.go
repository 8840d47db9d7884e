package output

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// NameRegistry hands out folder names for one run. Distinct titles that
// sanitize to the same name get numeric suffixes instead of overwriting each
// other; the same title always gets the same folder.
type NameRegistry struct {
	mu     sync.Mutex
	owners map[string]string // folder name -> title
	byName map[string]string // title -> folder name
}

// NewNameRegistry creates an empty registry
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		owners: make(map[string]string),
		byName: make(map[string]string),
	}
}

// Reserve returns the folder name for title
func (r *NameRegistry) Reserve(title string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.byName[title]; ok {
		return name
	}

	base := Sanitize(title)
	name := base
	for n := 2; ; n++ {
		owner, taken := r.owners[name]
		if !taken || owner == title {
			break
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}

	if name != base {
		log.Warn().
			Str("title", title).
			Str("conflicts_with", r.owners[base]).
			Str("folder", name).
			Msg("Sanitized name collision, using suffixed folder")
	}

	r.owners[name] = title
	r.byName[title] = name
	return name
}
