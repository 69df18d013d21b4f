// Package fold turns decoded traces into collapsed flame-graph stacks:
// one line per unique stack, frames root-to-leaf joined by ';',
// followed by the sample count.
package fold

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stackfold/pkg/model"
)

var (
	packageRe = regexp.MustCompile(`^(?P<package>.*\.)(?P<remainder>[^.]+\.[^.]+)$`)
	wordRe    = regexp.MustCompile(`(\w)\w*`)
)

// AbbreviatePackage shortens every package word of a dotted name to its
// first character: "foo.bar.Class.method" becomes "f.b.Class.method".
// Names without a package part are returned unchanged.
func AbbreviatePackage(name string) string {
	m := packageRe.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	return wordRe.ReplaceAllString(m[1], "$1") + m[2]
}

// UnwrapClassName converts a class name from the wire form to display
// form: the single leading and trailing delimiter characters are
// stripped and '/' package separators become '.'.
func UnwrapClassName(wrapped string) string {
	if len(wrapped) >= 2 {
		wrapped = wrapped[1 : len(wrapped)-1]
	}
	return strings.ReplaceAll(wrapped, "/", ".")
}

// MethodDisplayName renders "<class>.<method>" for a method, optionally
// abbreviating the package.
func MethodDisplayName(m model.Method, shortenPkgs bool) string {
	class := UnwrapClassName(m.ClassName)
	if shortenPkgs {
		class = AbbreviatePackage(class)
	}
	return class + "." + m.MethodName
}

// FormatFrame renders one frame for output, appending ":<line>" when a
// line number is available and wanted.
func FormatFrame(f model.Frame, m model.Method, discardLineno, shortenPkgs bool) string {
	name := MethodDisplayName(m, shortenPkgs)
	if !discardLineno && f.HasLine {
		name += ":" + strconv.Itoa(int(f.LineNo))
	}
	return name
}
