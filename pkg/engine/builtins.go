package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/mepkit/ducttag/pkg/flow"
	"github.com/mepkit/ducttag/pkg/shadow"
	"github.com/mepkit/ducttag/pkg/tag"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source before handing it to zygomys:
//
//  1. :keyword -> "__kw_keyword" string literals, so keywords need no
//     global symbol registration.
//  2. kebab-case -> underscore for identifiers (zygomys reads a hyphen
//     as subtraction), so scripts can call tag-horizontal.
//  3. ; line comments -> // line comments.
//
// String literal boundaries are respected throughout.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Double-quoted strings pass through untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Backtick strings too.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Lisp ; comments become zygomys // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// :keyword -> "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Hyphen between identifier characters is kebab-case, not minus.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec wraps a v3.Vec so builtins can pass points and directions
// between each other.
type sexpVec struct {
	vec v3.Vec
}

func (v *sexpVec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec) Type() *zygo.RegisteredType { return nil }

// sexpPair wraps a resolved endpoint pair.
type sexpPair struct {
	elementID string
	pair      flow.EndpointPair
}

func (p *sexpPair) SexpString(ps *zygo.PrintState) string {
	if p.pair.Empty() {
		return fmt.Sprintf("(endpoints %q :empty)", p.elementID)
	}
	return fmt.Sprintf("(endpoints %q %s -> %s)",
		p.elementID,
		(&sexpVec{vec: p.pair.Inlet.Origin}).SexpString(ps),
		(&sexpVec{vec: p.pair.Outlet.Origin}).SexpString(ps))
}
func (p *sexpPair) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the tagging DSL builtins into a zygomys
// environment. The builtins read and mutate the session's model and
// append to the run's result.
//
// Source must pass through preprocessSource first so :keyword tokens
// arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, session *Session, result *Result) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (elements :category "Ducts") -> array of element IDs
	// -----------------------------------------------------------------------
	env.AddFunction("elements", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		category := ""
		if v, ok := pa.kw["category"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("elements: category: %w", err)
			}
			category = s
		}

		var ids []zygo.Sexp
		for _, el := range session.Elements {
			if category != "" && el.Category() != category {
				continue
			}
			ids = append(ids, &zygo.SexpStr{S: el.ID()})
		}
		return env.NewSexpArray(ids), nil
	})

	// -----------------------------------------------------------------------
	// (resolve "duct-1" :size "40/20-12ø") -> endpoint pair
	// -----------------------------------------------------------------------
	env.AddFunction("resolve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("resolve requires an element ID")
		}
		id, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("resolve: id: %w", err)
		}
		el, ok := session.Element(id)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("resolve: no element %q", id)
		}

		var spec *flow.SizeSpec
		if v, ok := pa.kw["size"]; ok {
			raw, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("resolve: size: %w", err)
			}
			s := flow.ParseSize(raw)
			spec = &s
		}

		return &sexpPair{elementID: id, pair: flow.Resolve(el, spec)}, nil
	})

	// -----------------------------------------------------------------------
	// (inlet pair) / (outlet pair) -> vec3 or nil
	// -----------------------------------------------------------------------
	endOf := func(which string, pick func(flow.EndpointPair) *v3.Vec) {
		env.AddFunction(which, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires an endpoint pair", which)
			}
			p, ok := args[0].(*sexpPair)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: expected endpoint pair, got %T", which, args[0])
			}
			v := pick(p.pair)
			if v == nil {
				return zygo.SexpNull, nil
			}
			return &sexpVec{vec: *v}, nil
		})
	}
	endOf("inlet", func(p flow.EndpointPair) *v3.Vec {
		if p.Inlet == nil {
			return nil
		}
		return &p.Inlet.Origin
	})
	endOf("outlet", func(p flow.EndpointPair) *v3.Vec {
		if p.Outlet == nil {
			return nil
		}
		return &p.Outlet.Origin
	})

	// -----------------------------------------------------------------------
	// (shadow :start (vec3 0 0 0) :axis (vec3 1 0 0)
	//         :width 2 :height 1 :length 4) -> anchor vec3
	// -----------------------------------------------------------------------
	env.AddFunction("shadow", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		run := shadow.DuctRun{}

		frame, err := tag.FrameFromView(session.Services.View)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shadow: view: %w", err)
		}
		run.Frame = frame

		if v, ok := pa.kw["start"]; ok {
			p, err := toVec(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shadow: start: %w", err)
			}
			run.Start = p
		}
		if v, ok := pa.kw["axis"]; ok {
			d, err := toVec(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shadow: axis: %w", err)
			}
			run.Axis = d
		}
		for _, dim := range []struct {
			key string
			dst *float64
		}{
			{"width", &run.Width},
			{"height", &run.Height},
			{"length", &run.Length},
		} {
			if v, ok := pa.kw[dim.key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("shadow: %s: %w", dim.key, err)
				}
				*dim.dst = f
			}
		}

		s, err := shadow.Cast(run)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shadow: %w", err)
		}
		return &sexpVec{vec: s.Anchor}, nil
	})

	// -----------------------------------------------------------------------
	// (tag-horizontal :category "Ducts" :label "duct size")
	//   -> number of elements tagged
	// -----------------------------------------------------------------------
	env.AddFunction("tag_horizontal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		category, label := "", ""
		if v, ok := pa.kw["category"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tag-horizontal: category: %w", err)
			}
			category = s
		}
		if v, ok := pa.kw["label"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tag-horizontal: label: %w", err)
			}
			label = s
		}

		placer, err := tag.NewPlacer(session.Services)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tag-horizontal: %w", err)
		}
		outcomes, err := placer.TagHorizontal(session.Elements, category, label)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tag-horizontal: %w", err)
		}
		result.Outcomes = append(result.Outcomes, outcomes...)

		tagged := int64(0)
		for _, o := range outcomes {
			if o.Status == tag.StatusTagged {
				tagged++
			}
		}
		return &zygo.SexpInt{Val: tagged}, nil
	})

	// -----------------------------------------------------------------------
	// (emit "text" ...) -> records one output line
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := a.(*zygo.SexpStr); ok {
				parts = append(parts, s.S)
				continue
			}
			parts = append(parts, a.SexpString(nil))
		}
		result.Output = append(result.Output, strings.Join(parts, " "))
		return zygo.SexpNull, nil
	})
}
