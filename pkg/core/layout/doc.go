// Package layout implements the placement language attached to layers and
// paths of a layered document.
//
// # Specifications
//
// A [Specification] places an element inside a named region:
//
//	{
//	  "region": "header",
//	  "anchor": "top_left",
//	  "offset": [0.1, 0.2],
//	  "size": {"relative": 0.3},
//	  "repeat": {"type": "grid", "count": [3, 2], "spacing": 0.3},
//	  "zIndex": 2
//	}
//
// Sizes and repetitions are sum types: a [Size] is exactly one of [Absolute],
// [Relative] or [AspectConstrained], and a [Repetition] is a [Grid] or a
// [Radial] pattern.
//
// # Parsing
//
// [Parser.ParseSpecification] and [Parser.ParseConfig] run, in order, a
// structural schema check (which short-circuits), region and anchor lookups
// with "Did you mean" suggestions, offset, size and repetition checks, custom
// region checks and finally cross-field checks. In strict mode, problems the
// parser could correct are reported as errors; otherwise they become warnings
// and the correction is applied (unknown names fall back to "center",
// offsets are clamped to [-1, 1]). Warnings never make a result fail.
package layout
