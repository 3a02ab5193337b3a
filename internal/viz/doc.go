// Package viz draws scenes onto a braille canvas for terminal output.
//
//   - [Canvas]: 2x4 sub-pixel braille grid with per-cell tint
//   - [Viewport]: side (x-y), top (x-z) and orbit projections
//   - [RenderScene]: floor and wall outlines, spheres as circles
//
// Themes restyle every shared lipgloss style through [ApplyTheme].
package viz
