// Package onnx imports the layer sequence of an ONNX model.
//
// Only graph structure is decoded: operator types, attributes, tensor
// dimensions and the small integer or float constants that determine
// shapes (Reshape targets, Dropout ratios). Weight payloads are skipped.
//
// The protobuf wire format is decoded by hand; only the ONNX messages and
// fields listed in proto.go are read, everything else is skipped.
//
// Example usage:
//
//	model, err := onnx.ParseFile("lenet.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	imported, err := onnx.Convert(model)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layers, err := config.BuildLayers(imported.Specs)
package onnx
