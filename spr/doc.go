// Package spr implements a reader for individual sprites in Tibia.spr files.
//
// The file is a flat index of sprite data offsets followed by the data
// blocks. Each block is a run-length encoded 32x32 image: alternating runs of
// transparent and colored pixels, in row-major order.
//
// A higher level implementation needs to be used together with the dataset
// information on a thing's graphics layout and sprites in order to actually
// construct a full recognizable image; see package things.
package spr
