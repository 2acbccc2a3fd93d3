// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/netshape/internal/tensor"
)

// Shape is an ordered list of non-negative dimension sizes.
type Shape = tensor.Shape

// ParseShape parses a comma separated list of dimensions such as "1,3,32,32".
//
// Example:
//
//	s, err := tensor.ParseShape("1, 784")
func ParseShape(raw string) (Shape, error) {
	return tensor.ParseShape(raw)
}
