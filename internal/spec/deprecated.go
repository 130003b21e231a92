package spec

import (
	"slices"
	"sort"

	"github.com/mark3labs/jsdoc2swagger/internal/json"
)

// wrongProperties are singular spellings of document properties. "deprecated"
// is a valid operation field and is not listed.
var wrongProperties = []string{
	"consume",
	"produce",
	"path",
	"tag",
	"definition",
	"securityDefinition",
	"scheme",
	"response",
	"parameter",
}

type frame struct {
	node any
	path []string
}

// FindDeprecated walks every source depth first and returns each key found
// on the wrong-property list, duplicates included, in walk order. Keys that
// are direct children of a "properties" map name user properties and are not
// reported. Typed values are walked through their JSON form.
func FindDeprecated(sources ...any) []string {
	var problems []string
	for _, src := range sources {
		problems = append(problems, seekWrong(genericTree(src))...)
	}
	return problems
}

func seekWrong(root any) []string {
	var problems []string
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n := len(top.path); n > 0 {
			key := top.path[n-1]
			parentIsProperties := n >= 2 && top.path[n-2] == "properties"
			if slices.Contains(wrongProperties, key) && !parentIsProperties {
				problems = append(problems, key)
			}
		}

		switch node := top.node.(type) {
		case map[string]any:
			keys := make([]string, 0, len(node))
			for k := range node {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: node[keys[i]], path: childPath(top.path, keys[i])})
			}
		case []any:
			for i := len(node) - 1; i >= 0; i-- {
				// Indices never match the list; the path still records depth.
				stack = append(stack, frame{node: node[i], path: childPath(top.path, "#")})
			}
		}
	}
	return problems
}

// childPath returns a fresh slice so sibling frames never share backing
// arrays.
func childPath(parent []string, key string) []string {
	path := make([]string, len(parent)+1)
	copy(path, parent)
	path[len(parent)] = key
	return path
}

func genericTree(src any) any {
	switch v := src.(type) {
	case nil, map[string]any, []any:
		return v
	}
	var tree any
	if err := json.Convert(src, &tree); err != nil {
		return nil
	}
	return tree
}
