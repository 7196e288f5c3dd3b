package analyzer

import (
	"sort"
	"strings"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// alwaysEligible and conditionallyEligible mirror the §4.2 Pass D table;
// PartialOrd/Ord are deliberately never auto-derived (domain-specific
// ordering cannot be inferred from field structure alone).
var alwaysEligible = []string{"Debug", "Clone"}
var conditionalOrder = []string{"PartialEq", "Eq", "Hash", "Copy", "Default"}

// DeriveTable maps a type's unqualified name to its final derive set (after
// explicit @derive overrides) and to the raw structurally-eligible set
// Pass D computed before overrides, for WJ0400/WJ0401 diagnostics.
type DeriveTable struct {
	Traits    map[string]map[string]bool // final set, used by isCopy lookups
	Eligible  map[string]map[string]bool // structural set, pre-override
}

func newDeriveTable() *DeriveTable {
	return &DeriveTable{Traits: map[string]map[string]bool{}, Eligible: map[string]map[string]bool{}}
}

// PassD computes the derive set for every struct/enum declared in unit.
// Because a field's own eligibility (e.g. whether a nested struct is Copy)
// may depend on a type declared later in module order, or in another unit,
// this pass can be invoked repeatedly. Each call recomputes every declared
// type's set from its fields, consulting whatever of prior.Derives is
// already populated for the field types, and replaces that type's entry;
// the new set is not intersected with or bounded by the prior one.
func PassD(unit *ast.File, prior *Tables) (*Tables, []diag.Diagnostic) {
	tables := prior
	if tables == nil {
		tables = NewTables()
	} else {
		tables = tables.clone()
	}
	dt := tables.Derives
	if dt == nil {
		dt = newDeriveTable()
	} else {
		dt = &DeriveTable{
			Traits:   cloneTraitSets(dt.Traits),
			Eligible: cloneTraitSets(dt.Eligible),
		}
	}
	tables.Derives = dt

	var diags []diag.Diagnostic
	for _, it := range unit.Items {
		deriveItem(it, tables, dt, &diags)
	}
	return tables, diags
}

func cloneTraitSets(m map[string]map[string]bool) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(m))
	for k, v := range m {
		set := make(map[string]bool, len(v))
		for t, b := range v {
			set[t] = b
		}
		out[k] = set
	}
	return out
}

func deriveItem(it ast.Item, tables *Tables, dt *DeriveTable, diags *[]diag.Diagnostic) {
	switch v := it.(type) {
	case *ast.StructItem:
		deriveFields(v.Name, fieldTypeNames(v.Fields), v.Attrs, tables, dt, diags)
	case *ast.EnumItem:
		var types []string
		for _, variant := range v.Variants {
			types = append(types, fieldTypeNames(variant.Fields)...)
		}
		deriveFields(v.Name, types, v.Attrs, tables, dt, diags)
	case *ast.ModItem:
		for _, sub := range v.Items {
			deriveItem(sub, tables, dt, diags)
		}
	}
}

func fieldTypeNames(fields []ast.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = typeName(f.Type)
	}
	return names
}

// containerForwardTraits are the traits a std container (Vec<T>, Option<T>,
// Result<T,E>) forwards from its type argument(s). Eq/Hash/Copy are
// deliberately never forwarded: a container holding an Eq/Hash element isn't
// assumed Eq/Hash itself here, matching the smart-auto-derive set a struct
// with a Vec field is expected to land on (Debug/Clone/PartialEq/Default,
// never Eq/Hash/Copy).
var containerForwardTraits = map[string]bool{"Debug": true, "Clone": true, "PartialEq": true, "Default": true}

func (t *Tables) typeDerivesTrait(name, trait string) bool {
	if copyPrimitives[name] && (trait == "Copy" || trait == "Clone" || trait == "Debug" ||
		trait == "PartialEq" || trait == "Eq" || trait == "Hash" || trait == "Default") {
		return true
	}
	if name == "string" {
		return trait != "Copy"
	}
	if _, args, ok := parseContainerType(name); ok {
		if !containerForwardTraits[trait] {
			return false
		}
		for _, a := range args {
			if a == "" || !t.typeDerivesTrait(a, trait) {
				return false
			}
		}
		return true
	}
	if t.Derives == nil {
		return false
	}
	set, ok := t.Derives.Traits[name]
	if !ok {
		// Unknown type (not yet analyzed, or an external crate type):
		// assume the always-eligible traits hold and nothing else, the
		// conservative choice that never fabricates an unsafe derive.
		return trait == "Debug" || trait == "Clone"
	}
	return set[trait]
}

// parseContainerType recognizes the std container type-name spellings Pass B
// produces — "Vec<T>" and "Option<T>" (NamedType with generics), "T?" (the
// Option sugar), and "Result<Ok,Err>" — and returns their type arguments for
// typeDerivesTrait's forwarding rule.
func parseContainerType(name string) (container string, args []string, ok bool) {
	switch {
	case strings.HasSuffix(name, "?"):
		return "Option", []string{name[:len(name)-1]}, true
	case strings.HasPrefix(name, "Vec<") && strings.HasSuffix(name, ">"):
		return "Vec", []string{name[len("Vec<") : len(name)-1]}, true
	case strings.HasPrefix(name, "Option<") && strings.HasSuffix(name, ">"):
		return "Option", []string{name[len("Option<") : len(name)-1]}, true
	case strings.HasPrefix(name, "Result<") && strings.HasSuffix(name, ">"):
		inner := name[len("Result<") : len(name)-1]
		return "Result", splitTopLevelComma(inner), true
	default:
		return "", nil, false
	}
}

// splitTopLevelComma splits s on commas that aren't nested inside another
// type argument list, so "Result<Vec<A>,B>" splits into "Vec<A>" and "B".
func splitTopLevelComma(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func deriveFields(name string, fieldTypes []string, attrs []*ast.Attribute, tables *Tables, dt *DeriveTable, diags *[]diag.Diagnostic) {
	eligible := map[string]bool{}
	for _, trait := range alwaysEligible {
		allFieldsHave := true
		for _, ft := range fieldTypes {
			if ft != "" && !tables.typeDerivesTrait(ft, trait) {
				allFieldsHave = false
				break
			}
		}
		eligible[trait] = allFieldsHave
	}
	for _, trait := range conditionalOrder {
		eligible[trait] = conditionEligible(trait, fieldTypes, eligible, tables)
	}

	dt.Eligible[name] = eligible

	final := map[string]bool{}
	for k, v := range eligible {
		final[k] = v
	}
	applyDeriveOverrides(name, attrs, eligible, final, diags)
	dt.Traits[name] = final
}

func conditionEligible(trait string, fieldTypes []string, eligible map[string]bool, tables *Tables) bool {
	switch trait {
	case "PartialEq":
		return allFieldsHave(fieldTypes, tables, "PartialEq")
	case "Eq":
		return eligible["PartialEq"] && allFieldsHave(fieldTypes, tables, "Eq")
	case "Hash":
		return eligible["Eq"] && allFieldsHave(fieldTypes, tables, "Hash")
	case "Copy":
		return allFieldsHave(fieldTypes, tables, "Copy")
	case "Default":
		return allFieldsHave(fieldTypes, tables, "Default")
	default:
		return false
	}
}

func allFieldsHave(fieldTypes []string, tables *Tables, trait string) bool {
	for _, ft := range fieldTypes {
		if ft == "" {
			continue
		}
		if !tables.typeDerivesTrait(ft, trait) {
			return false
		}
	}
	return true
}

// applyDeriveOverrides interprets "@derive(A, B)" (replace the inferred set
// entirely) and "@derive(+A, -B)" (additive/subtractive modification),
// mutating final in place and recording WJ0400/WJ0401 where an override has
// no effect or forces a structurally-unsafe derive.
func applyDeriveOverrides(typeName string, attrs []*ast.Attribute, eligible, final map[string]bool, diags *[]diag.Diagnostic) {
	for _, a := range attrs {
		if a.Name != "derive" {
			continue
		}
		names := deriveAttrNames(a)
		replace := true
		for _, n := range names {
			if strings.HasPrefix(n, "+") || strings.HasPrefix(n, "-") {
				replace = false
				break
			}
		}
		if replace {
			for k := range final {
				final[k] = false
			}
			for _, n := range names {
				final[n] = true
			}
			continue
		}
		for _, n := range names {
			switch {
			case strings.HasPrefix(n, "+"):
				trait := n[1:]
				if eligible[trait] {
					*diags = append(*diags, diag.Warn("WJ0400", a.Sp,
						"@derive(+%s) has no effect on %s: already structurally eligible", trait, typeName))
				} else if trait != "Debug" && trait != "Clone" {
					*diags = append(*diags, diag.Warn("WJ0401", a.Sp,
						"@derive(+%s) requested for %s, but a field type is not structurally %s", trait, typeName, trait))
				}
				final[trait] = true
			case strings.HasPrefix(n, "-"):
				trait := n[1:]
				if !eligible[trait] {
					*diags = append(*diags, diag.Warn("WJ0400", a.Sp,
						"@derive(-%s) has no effect on %s: not structurally eligible", trait, typeName))
				}
				final[trait] = false
			}
		}
	}
}

func deriveAttrNames(a *ast.Attribute) []string {
	var names []string
	for _, arg := range a.Args {
		if id, ok := arg.(*ast.Ident); ok {
			names = append(names, id.Name)
		}
	}
	return names
}

// Set returns the sorted final derive list for name, for codegen's single
// derive attribute (§4.3).
func (dt *DeriveTable) Set(name string) []string {
	var out []string
	for trait, on := range dt.Traits[name] {
		if on {
			out = append(out, trait)
		}
	}
	sort.Strings(out)
	return out
}
