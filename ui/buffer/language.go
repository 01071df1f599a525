package buffer

import (
	"path/filepath"
	"strings"

	"github.com/fivemoreminix/texdown/style"
	"github.com/fivemoreminix/texdown/syntax"
)

// A Language bundles the rules that tag a file type with the styles its
// categories are drawn in.
type Language struct {
	Name      string
	Filetypes []string // .td, .texdown, etc.
	Catalog   *syntax.Catalog
	Styles    *style.Resolver
	Sniff     func(src []byte) bool // Optional: recognizes contents without a known extension
}

// DetectLanguage picks the language for a file, first by extension and then
// by asking each language to sniff the contents. It returns nil if none fits.
func DetectLanguage(path string, src []byte, langs ...*Language) *Language {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		for _, lang := range langs {
			for _, ft := range lang.Filetypes {
				if strings.EqualFold(ft, ext) {
					return lang
				}
			}
		}
	}
	for _, lang := range langs {
		if lang.Sniff != nil && lang.Sniff(src) {
			return lang
		}
	}
	return nil
}
