// Package theme handles colour themes for docshell.
//
// Three themes are bundled: light, dark and high-contrast. Each theme is a
// TOML palette embedded in the binary. A file with the same name in
// ~/.config/docshell/themes/ overrides individual colours of the bundled
// palette and is hot-reloaded by Watcher.
//
// Manager tracks the selected theme and persists it through a key/value
// store. The light theme is the default and is stored as the absence of
// the key.
package theme
