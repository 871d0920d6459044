package entities

import "path/filepath"

// Installation is a php version tree under the archives directory:
// the extracted sources with the build output in its "dist" subdirectory.
type Installation struct {
	Version string
	Path    string
}

// DistDir is the configure --prefix of the installation.
func (i Installation) DistDir() string {
	return filepath.Join(i.Path, "dist")
}

// BinDir is the directory the active-version symlink points at.
func (i Installation) BinDir() string {
	return filepath.Join(i.DistDir(), "bin")
}

// PHPBinary is the built interpreter.
func (i Installation) PHPBinary() string {
	return filepath.Join(i.BinDir(), "php")
}

// IniFile is where php.ini is installed.
func (i Installation) IniFile() string {
	return filepath.Join(i.DistDir(), "lib", "php.ini")
}

// BuildConf is the script whose presence marks an extracted source tree.
func (i Installation) BuildConf() string {
	return filepath.Join(i.Path, "buildconf")
}

// BuildOptions holds the options forwarded to the native build.
type BuildOptions struct {
	Dev     bool
	Verbose bool
}
