// Package savegame persists games in progress to numbered slot files.
//
// A save is a single ASCII line: a two character prefix, then one field
// per player of the form <token><skip 0|1><position>. and finally one
// letter per remaining deck card (A-F single colors, G-L doubles, M-P the
// destination cards). Reading never fails loudly: a missing, empty or
// malformed slot simply reports that nothing was loaded.
package savegame
