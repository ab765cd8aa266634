// Package main hosts the cutroom CLI entrypoint and command graph.
//
// Every editing command is a one-shot transaction against a project document:
// open it through a session, apply the edit, save it back. Export and plan
// compile the same timeline; export additionally runs the ffmpeg engine and
// records the run in the history database. Configuration resolution, logger
// setup and collaborator wiring live in commandContext so subcommands only
// deal with arguments and output.
package main
