package text

import (
	"regexp"
)

var (
	eventHandlerAttr  = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	dangerousProtocol = regexp.MustCompile(`(?i)(javascript|vbscript|data)\s*:`)
	dangerousTags     = []string{"script", "style", "iframe", "frame", "object", "embed", "applet", "form", "input", "button", "select", "textarea"}
	dangerousTagRes   = compileTagPatterns(dangerousTags)
)

type tagPattern struct {
	block *regexp.Regexp
	open  *regexp.Regexp
}

func compileTagPatterns(tags []string) []tagPattern {
	patterns := make([]tagPattern, 0, len(tags))
	for _, tag := range tags {
		patterns = append(patterns, tagPattern{
			// 태그와 내용 모두
			block: regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>.*?</` + tag + `\s*>`),
			// 닫히지 않은 태그, 자체 닫힘 태그
			open: regexp.MustCompile(`(?i)</?` + tag + `\b[^>]*/?>`),
		})
	}
	return patterns
}

// Sanitize 리치 텍스트 HTML 정제
// 이벤트 핸들러 속성, 위험한 프로토콜, 실행 가능한 태그를 제거하고 나머지 마크업은 유지한다
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	result := eventHandlerAttr.ReplaceAllString(input, "")
	result = dangerousProtocol.ReplaceAllString(result, "blocked:")
	for _, p := range dangerousTagRes {
		result = p.block.ReplaceAllString(result, "")
		result = p.open.ReplaceAllString(result, "")
	}
	return result
}
