// Package theme turns the style section of the configuration into lipgloss
// styles. Styles are UI resources: build them on the apply thread, as part of
// applying a configuration, and hand them to the UI from there.
package theme
