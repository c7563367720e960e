package release

import (
	"strings"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
)

// Repo names a hosted repository
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository parses "owner/name"
func ParseRepository(s string) (Repo, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, errors.NewInvalidArgumentError("repository",
			"the repository should be written in <owner>/<repository> form").
			WithContext("value", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// VersionConstant locates a constant in a file of the repository
type VersionConstant struct {
	File     string
	Constant string
}

func (v VersionConstant) String() string {
	return v.File + "::" + v.Constant
}

// ParseVersionConstant parses "path/to/File.php::CONSTANT"
func ParseVersionConstant(s string) (VersionConstant, error) {
	file, constant, ok := strings.Cut(s, "::")
	if !ok || file == "" || constant == "" {
		return VersionConstant{}, errors.NewInvalidArgumentError("version-constant",
			"the version constant should be written in <file>::<constant name> form").
			WithContext("value", s)
	}
	return VersionConstant{File: file, Constant: constant}, nil
}
