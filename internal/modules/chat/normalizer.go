package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/samber/lo"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/modules/plan"
)

// Normalize turns free-form model text into a Reply. It never fails: text
// that cannot be repaired becomes a diagnostic reply without actions.
func Normalize(raw string) Reply {
	data, ok := ai.DecodeObject(raw)
	if !ok {
		log.Printf("[CHAT] model reply is not a JSON object: %s", raw)
		return unparseableReply(raw)
	}

	// The legacy singular key is folded into "actions" here and nowhere else.
	rawActions := data["actions"]
	if rawActions == nil {
		rawActions = data["action"]
	}
	entries := normalizeActions(rawActions)

	hasAction := len(entries) > 0
	if v, ok := data["hasAction"]; ok && v != nil {
		b, isBool := looseBool(v)
		if !isBool {
			return invalidReply(fmt.Errorf("hasAction: expected boolean, got %T %v", v, v), targetSample(entries))
		}
		// An explicit false from the model withdraws the actions it listed.
		hasAction = b && hasAction
	}

	msg, err := userMessage(data)
	if err != nil {
		return invalidReply(err, targetSample(entries))
	}
	actions, err := toActions(entries)
	if err != nil {
		log.Printf("[CHAT] action validation failed: %v (actions: %v)", err, entries)
		return invalidReply(err, targetSample(entries))
	}
	if !hasAction {
		return Message(msg)
	}
	return NewReply(msg, actions)
}

// looseBool accepts a JSON boolean, 0/1, or the usual boolean spellings
// ("true", "False", "yes", "off", ...).
func looseBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		switch b {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, true
		case "false", "f", "no", "n", "off", "0":
			return false, true
		}
	}
	return false, false
}

func userMessage(data map[string]any) (string, error) {
	v, ok := data["userMessage"]
	if !ok || v == nil {
		return "", errors.New("userMessage: field required")
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("userMessage: expected string, got %T", v)
	}
	return s, nil
}

// normalizeActions coerces whatever the model put under actions into a list
// of mappings whose "target" is itself a mapping.
func normalizeActions(raw any) []map[string]any {
	if raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		list = []any{raw}
	}

	out := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if inner, ok := entry.([]any); ok {
			entry = lo.FirstOrEmpty(inner)
		}
		if entry == nil {
			continue
		}
		m, ok := entry.(map[string]any)
		if !ok {
			log.Printf("[CHAT] dropped non-object action entry: %v", entry)
			continue
		}
		out = append(out, normalizeEntry(m))
	}
	return out
}

func normalizeEntry(m map[string]any) map[string]any {
	target, ok := m["target"]
	if !ok || target == nil {
		// Recover a target the model flattened into targetX siblings.
		recovered := map[string]any{}
		for k, v := range m {
			if strings.HasPrefix(k, "target") && k != "target" && k != "targetName" {
				recovered[k] = v
			}
		}
		for k := range recovered {
			delete(m, k)
		}
		target = recovered
	}
	m["target"] = normalizeTarget(target)
	return m
}

func normalizeTarget(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) == 0 {
			return map[string]any{}
		}
		switch first := t[0].(type) {
		case map[string]any:
			return first
		case string:
			return repairedTarget(first)
		}
		return map[string]any{}
	case string:
		return repairedTarget(t)
	case float64, json.Number, bool:
		return map[string]any{"value": t}
	}
	return map[string]any{}
}

func repairedTarget(s string) map[string]any {
	if m, ok := ai.RepairJSON(s).(map[string]any); ok {
		return m
	}
	return map[string]any{"raw_string_data": s}
}

func toActions(entries []map[string]any) ([]plan.Action, error) {
	actions := make([]plan.Action, 0, len(entries))
	for i, e := range entries {
		kind, _ := e["action"].(string)
		if !plan.Kind(kind).Valid() {
			return nil, fmt.Errorf("actions[%d].action: unsupported value %v", i, e["action"])
		}
		name, _ := e["targetName"].(string)
		if !plan.Target(name).Valid() {
			return nil, fmt.Errorf("actions[%d].targetName: unsupported value %v", i, e["targetName"])
		}
		actions = append(actions, plan.Action{
			Kind:       plan.Kind(kind),
			TargetName: plan.Target(name),
			Payload:    e["target"].(map[string]any),
		})
	}
	return actions, nil
}

// targetSample serializes the first offending target for operators.
func targetSample(entries []map[string]any) string {
	if len(entries) == 0 {
		return targetNotFound
	}
	b, err := json.Marshal(entries[0]["target"])
	if err != nil {
		return fmt.Sprint(entries[0]["target"])
	}
	return string(b)
}
