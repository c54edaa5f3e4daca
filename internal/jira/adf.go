package jira

import (
	"strings"
)

// Jira Cloud's v3 API represents rich text (descriptions, comments,
// worklog comments) as Atlassian Document Format, a JSON tree. Tools
// accept and return plain text, so writes wrap text into a minimal ADF
// document and reads flatten the tree back out.

// adfFromText builds an ADF document from plain text. Each line becomes
// one paragraph; blank lines produce empty paragraphs so round-tripped
// text keeps its spacing.
func adfFromText(text string) map[string]interface{} {
	lines := strings.Split(text, "\n")
	content := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		para := map[string]interface{}{"type": "paragraph"}
		if line != "" {
			para["content"] = []interface{}{
				map[string]interface{}{"type": "text", "text": line},
			}
		}
		content = append(content, para)
	}
	return map[string]interface{}{
		"type":    "doc",
		"version": 1,
		"content": content,
	}
}

// textFromADF flattens an ADF document (or any of its subtrees) to plain
// text. Unknown node types contribute their children's text; structural
// nodes insert newlines. A plain string passes through unchanged, which
// also covers v2-style string descriptions.
func textFromADF(v interface{}) string {
	switch node := v.(type) {
	case nil:
		return ""
	case string:
		return node
	case map[string]interface{}:
		return strings.TrimRight(flattenADFNode(node), "\n")
	default:
		return ""
	}
}

func flattenADFNode(node map[string]interface{}) string {
	nodeType, _ := node["type"].(string)

	switch nodeType {
	case "text":
		s, _ := node["text"].(string)
		return s
	case "hardBreak":
		return "\n"
	case "mention":
		if attrs, ok := node["attrs"].(map[string]interface{}); ok {
			if text, ok := attrs["text"].(string); ok {
				return text
			}
		}
		return ""
	case "emoji":
		if attrs, ok := node["attrs"].(map[string]interface{}); ok {
			if shortName, ok := attrs["shortName"].(string); ok {
				return shortName
			}
		}
		return ""
	case "inlineCard":
		if attrs, ok := node["attrs"].(map[string]interface{}); ok {
			if u, ok := attrs["url"].(string); ok {
				return u
			}
		}
		return ""
	}

	var sb strings.Builder
	children, _ := node["content"].([]interface{})
	for i, child := range children {
		childMap, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		childType, _ := childMap["type"].(string)
		text := flattenADFNode(childMap)

		switch childType {
		case "paragraph", "heading", "blockquote", "codeBlock", "panel", "rule":
			sb.WriteString(text)
			if i < len(children)-1 {
				sb.WriteString("\n")
			}
		case "bulletList", "orderedList":
			sb.WriteString(text)
			if i < len(children)-1 {
				sb.WriteString("\n")
			}
		case "listItem":
			sb.WriteString("- ")
			sb.WriteString(text)
			if i < len(children)-1 {
				sb.WriteString("\n")
			}
		default:
			sb.WriteString(text)
		}
	}
	return sb.String()
}
