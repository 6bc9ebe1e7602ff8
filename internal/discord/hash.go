package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashCommand returns a deterministic fingerprint of a command schema, used
// to skip re-registering commands the platform already has.
func hashCommand(def *discordgo.ApplicationCommand) string {
	data, _ := json.Marshal(normalizeCommand(def))
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

// normalizeCommand keeps only the schema fields, dropping runtime-assigned
// ones (IDs, version) so the hash survives a round trip through the platform.
func normalizeCommand(def *discordgo.ApplicationCommand) map[string]any {
	obj := map[string]any{
		"name":        def.Name,
		"description": def.Description,
		"type":        def.Type,
	}
	if len(def.Options) > 0 {
		obj["options"] = normalizeOptions(def.Options)
	}
	return obj
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	normalized := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, c := range o.Choices {
				choices[j] = map[string]any{"name": c.Name, "value": c.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		normalized[i] = entry
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i]["name"].(string) < normalized[j]["name"].(string)
	})
	return normalized
}
