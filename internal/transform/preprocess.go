package transform

import (
	astro "github.com/goastro/compiler/internal"
)

// StylePreprocessor transforms a <style> block's raw text before scoping —
// e.g. compiling Sass/Less down to plain CSS. The host supplies this (the
// WASM binding marshals it from a JS callback); the compiler core only ever
// calls the plain Go function type, so it never imports syscall/js itself.
type StylePreprocessor func(source string, lang string) (string, error)

// PreprocessStyle rewrites n's text content through opts.PreprocessStyle, if
// one was configured. It's a no-op when PreprocessStyle is nil.
func PreprocessStyle(n *astro.Node, opts *TransformOptions) error {
	preprocess, _ := opts.PreprocessStyle.(StylePreprocessor)
	if preprocess == nil || n.FirstChild == nil {
		return nil
	}
	out, err := preprocess(n.FirstChild.Data, GetQuotedAttr(n, "lang"))
	if err != nil {
		return err
	}
	n.FirstChild.Data = out
	return nil
}
