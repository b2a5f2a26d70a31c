// Package preflight provides readiness checks for the directories and
// external programs subtitler depends on.
//
// These checks run in two contexts:
//   - The transcribe command calls RunAll and CheckSystemDeps before a batch
//     starts so a missing tool fails fast instead of once per media file.
//   - The "subtitler status" command renders every result as a table.
package preflight
