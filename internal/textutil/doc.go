// Package textutil turns user supplied names into safe file name components.
package textutil
