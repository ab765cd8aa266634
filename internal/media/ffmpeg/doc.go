// Package ffmpeg implements the export engine on top of the ffmpeg CLI.
//
// Each engine operation maps to one ffmpeg invocation: stream-copy trims,
// concat-demuxer joins, adelay/amix audio mixes and a final re-encoding mux.
// Commands run through an injectable runner so tests can assert arguments
// without an ffmpeg binary.
package ffmpeg
