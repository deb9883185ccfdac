package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/semmy-space/kc/internal/output"
)

// SchemaCmd prints the command tree as JSON for scripts and shell tooling
type SchemaCmd struct {
	Command string `arg:"" optional:"" help:"Command path to describe (e.g., 'config set')"`
}

// SchemaNode describes one command
type SchemaNode struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Help     string        `json:"help,omitempty"`
	Flags    []*SchemaFlag `json:"flags,omitempty"`
	Args     []*SchemaArg  `json:"args,omitempty"`
	Children []*SchemaNode `json:"commands,omitempty"`
}

// SchemaFlag describes a flag
type SchemaFlag struct {
	Name  string   `json:"name"`
	Help  string   `json:"help,omitempty"`
	Short string   `json:"short,omitempty"`
	Env   string   `json:"env,omitempty"`
	Enum  []string `json:"enum,omitempty"`
}

// SchemaArg describes a positional argument
type SchemaArg struct {
	Name     string `json:"name"`
	Help     string `json:"help,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Run executes the schema command
func (cmd *SchemaCmd) Run(ctx *kong.Context) error {
	node, err := findNodeByPath(ctx.Model.Node, cmd.Command)
	if err != nil {
		return output.NewCLIError(output.ExitUsage, err.Error())
	}

	enc := json.NewEncoder(ctx.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(describeNode(node))
}

func describeNode(node *kong.Node) *SchemaNode {
	schema := &SchemaNode{
		Name: node.Name,
		Type: nodeTypeString(node.Type),
		Help: node.Help,
	}

	for _, flag := range node.Flags {
		if flag.Name == "help" || flag.Hidden {
			continue
		}

		sf := &SchemaFlag{Name: flag.Name, Help: flag.Help}
		if flag.Short != 0 {
			sf.Short = string(flag.Short)
		}
		if len(flag.Envs) > 0 {
			sf.Env = flag.Envs[0]
		}
		for _, v := range strings.Split(flag.Enum, ",") {
			if v != "" {
				sf.Enum = append(sf.Enum, v)
			}
		}
		schema.Flags = append(schema.Flags, sf)
	}

	for _, arg := range node.Positional {
		schema.Args = append(schema.Args, &SchemaArg{
			Name:     arg.Name,
			Help:     arg.Help,
			Required: arg.Required,
		})
	}

	for _, child := range node.Children {
		if child.Hidden {
			continue
		}
		schema.Children = append(schema.Children, describeNode(child))
	}

	return schema
}

// findNodeByPath walks space separated command names down from root
func findNodeByPath(root *kong.Node, path string) (*kong.Node, error) {
	current := root

	for _, part := range strings.Fields(path) {
		var next *kong.Node
		for _, child := range current.Children {
			if child.Name == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("command not found: %s", path)
		}
		current = next
	}

	return current, nil
}

func nodeTypeString(t kong.NodeType) string {
	switch t {
	case kong.ApplicationNode:
		return "application"
	case kong.CommandNode:
		return "command"
	case kong.ArgumentNode:
		return "argument"
	default:
		return "unknown"
	}
}
