// Package naming turns display names into filesystem-safe output names and
// keeps output paths unique within a pass.
//
// Sanitize applies a fixed allow-list (ASCII letters and digits, space,
// -_.(), and the Russian alphabet) and never returns an empty string.
// WithID and Plain build the per-kind file names; OutputDirName builds the
// per-input directory name with an optional run timestamp.
//
// CollisionResolver is an owner map plus counter: a path claimed by one owner
// is handed to a different owner as "<stem>_<tag><ext>" when a tag is given,
// otherwise as "<stem>_dupN<ext>".
package naming
