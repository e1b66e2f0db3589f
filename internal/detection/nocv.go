//go:build !gocv

package detection

// OpenCamera reports that capture support was not compiled in.
func OpenCamera(device, width, height int) (Camera, error) {
	return nil, ErrNoCapture
}

// OpenModel reports that model support was not compiled in.
func OpenModel(modelPath, configPath, labelsPath string) (Source, error) {
	return nil, ErrNoCapture
}
