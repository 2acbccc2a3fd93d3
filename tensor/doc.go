// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the shape type used throughout netshape.
//
// # Overview
//
// netshape never materializes tensor data. A tensor is described only by its
// Shape, an ordered list of dimension sizes in NCHW order for image tensors:
//
//	input := tensor.Shape{1, 3, 32, 32} // batch, channels, height, width
//	fmt.Println(input.NumElements())    // 3072
//	fmt.Println(input)                  // [1, 3, 32, 32]
//
// # Parsing
//
// ParseShape accepts the comma separated form used on the command line,
// optionally bracketed:
//
//	s, err := tensor.ParseShape("1,3,32,32")
//	s, err := tensor.ParseShape("[1, 3, 32, 32]")
package tensor
