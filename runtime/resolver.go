package runtime

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/estateflow/orchestrator/types"
	"github.com/estateflow/orchestrator/utils"
)

/**
 * Resolver substitutes {{task_id.field.path}} references in payload
 * templates against the results table of one executor run.
 *
 * Resolution failures are per-field and silent: a missing task result
 * or a dead-end field walk keeps the literal placeholder text in the
 * outgoing payload. That keeps the degradation observable downstream
 * without failing the task, which matters because dependents run even
 * when an ancestor failed.
 */
type Resolver struct {
	requestID string
	results   map[string]types.Data
}

func NewResolver(requestID string, results map[string]types.Data) *Resolver {
	return &Resolver{requestID: requestID, results: results}
}

/**
 * ResolvePayload returns a payload of the same shape as the template.
 * Only string values holding a whole placeholder are substituted;
 * nested maps, lists and scalars pass through untouched and are not
 * scanned for embedded references.
 */
func (r *Resolver) ResolvePayload(template types.Data) types.Data {
	resolved := make(types.Data, len(template))
	for key, value := range template {
		if raw, ok := value.(string); ok && isPlaceholder(raw) {
			resolved[key] = r.resolveRef(raw)
			continue
		}
		resolved[key] = value
	}
	return resolved
}

func isPlaceholder(s string) bool {
	return strings.Contains(s, "{{") && strings.Contains(s, "}}")
}

func (r *Resolver) resolveRef(raw string) any {
	path := utils.ParseRef(raw)
	taskID, exists := path.First()
	if !exists {
		return raw
	}

	result, exists := r.results[taskID]
	if !exists {
		log.Warnf("%s task result not found for %s, keeping placeholder as-is", r.requestID, taskID)
		return raw
	}

	value, ok := lookup(result, path.Next())
	if !ok {
		log.Warnf("%s could not resolve placeholder %s, keeping it as-is", r.requestID, raw)
		return raw
	}
	return value
}

// lookup walks the field path through a stored result, failing closed
// on any missing key or non-map step instead of raising.
func lookup(root types.Data, path utils.Path) (any, bool) {
	var current any = map[string]any(root)
	for _, segment := range path {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case types.Data:
		return m, true
	}
	return nil, false
}
