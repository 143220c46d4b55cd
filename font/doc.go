// The font subpackage parses TrueType/OpenType fonts and resolves the
// family/name/bold/italic combinations an ASS script's styles ask for,
// backing the [Provider] seam the rendering pipeline calls to turn a
// style's FontName into a face it can shape and rasterize with.
//
// A [Library] is the default, in-memory [Provider] backing: parse fonts
// into it up front, then hand [NewProvider] to Config.Fonts. A caller
// with its own font management (a game's asset pipeline, a system font
// lookup) can skip Library and implement [Provider] directly instead.
package font
