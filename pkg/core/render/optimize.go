package render

import (
	"regexp"
	"strings"
)

var (
	xmlDeclRe    = regexp.MustCompile(`<\?xml[^>]*\?>`)
	commentRe    = regexp.MustCompile(`<!--[\s\S]*?-->`)
	interTagWsRe = regexp.MustCompile(`>\s+<`)
	tagRe        = regexp.MustCompile(`<[^<>]+>`)
	spaceRe      = regexp.MustCompile(`\s+`)
	numericAttr  = regexp.MustCompile(`(\s(?:d|transform|viewBox|width|height|x|y|cx|cy|r|rx|ry|x1|y1|x2|y2|points|stroke-width|opacity|fill-opacity|stroke-opacity)=")([^"]*)"`)
	decimalRe    = regexp.MustCompile(`\d*\.\d+`)
)

// OptimizeSVG reduces the size of SVG text. It drops the XML declaration and
// comments, removes whitespace between tags, collapses whitespace inside tags
// and trims trailing zeros from numbers in geometric attributes. Text content
// is left alone.
//
// Every step only removes characters, so the result is never longer than
// the input.
func OptimizeSVG(s string) string {
	s = xmlDeclRe.ReplaceAllString(s, "")
	s = commentRe.ReplaceAllString(s, "")
	s = interTagWsRe.ReplaceAllString(s, "><")
	s = tagRe.ReplaceAllStringFunc(s, optimizeTag)
	return strings.TrimSpace(s)
}

func optimizeTag(tag string) string {
	tag = spaceRe.ReplaceAllString(tag, " ")
	switch {
	case strings.HasSuffix(tag, " />"):
		tag = tag[:len(tag)-3] + "/>"
	case strings.HasSuffix(tag, " >"):
		tag = tag[:len(tag)-2] + ">"
	}
	return numericAttr.ReplaceAllStringFunc(tag, func(m string) string {
		parts := numericAttr.FindStringSubmatch(m)
		value := strings.TrimSpace(decimalRe.ReplaceAllStringFunc(parts[2], trimDecimal))
		return parts[1] + value + `"`
	})
}

// trimDecimal drops trailing fractional zeros: "1.50" → "1.5", "2.00" → "2".
// A bare ".0" keeps its zero.
func trimDecimal(s string) string {
	t := strings.TrimRight(s, "0")
	t = strings.TrimSuffix(t, ".")
	if t == "" {
		return "0"
	}
	return t
}
