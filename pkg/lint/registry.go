package lint

import "sync"

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered lint rules for discovery.
// Registration order is preserved so listings are deterministic.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
	order []string           // IDs in registration order
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
// Re-registering an ID replaces the definition but keeps its position.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if _, exists := globalRegistry.rules[rule.ID]; !exists {
		globalRegistry.order = append(globalRegistry.order, rule.ID)
	}
	globalRegistry.rules[rule.ID] = rule
}

// All returns all registered rules in registration order.
func All() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.order))
	for _, id := range globalRegistry.order {
		rules = append(rules, globalRegistry.rules[id])
	}
	return rules
}

// Get returns a rule by its ID.
func Get(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// ByGroup returns all rules in a specific group, in registration order.
func ByGroup(group string) []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	var rules []RuleDef
	for _, id := range globalRegistry.order {
		if rule := globalRegistry.rules[id]; rule.Group == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Infos returns metadata for all registered rules in registration order.
func Infos() []RuleInfo {
	defs := All()
	infos := make([]RuleInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, GetRuleInfo(WrapRuleDef(def)))
	}
	return infos
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Reset removes all registered rules. Used for testing.
func Reset() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
	globalRegistry.order = nil
}
