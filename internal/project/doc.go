// Package project ties a catalog and a timeline into one editable document
// and persists it as JSON.
//
// Save writes the whole document through a temp file and rename while holding
// an advisory lock on "<path>.lock". Load restores assets first, then clips;
// clips that reference unknown media or carry invalid ranges are dropped and
// listed in the returned LoadReport instead of failing the load.
package project
