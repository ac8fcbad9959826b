// Package plotting exports figure data for rendering on the matplotlib
// side. A MatplotlibFigure records line, scatter and error bar series plus
// per-series options, then Save serializes everything little-endian into a
// compact ".img" command file that the accompanying Python reader turns
// into an image.
package plotting
