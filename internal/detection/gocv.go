//go:build gocv

package detection

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	yoloInputSize = 416
	minConfidence = 0.25
)

type gocvCamera struct {
	h   handle
	vc  *gocv.VideoCapture
	img gocv.Mat
	seq uint64
}

// OpenCamera opens a capture device and requests the given frame size.
func OpenCamera(device, width, height int) (Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", device, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	vc.Set(gocv.VideoCaptureBufferSize, 1)

	return &gocvCamera{vc: vc, img: gocv.NewMat()}, nil
}

func (c *gocvCamera) Capture(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	var frame Frame
	err := c.h.use(func() error {
		if ok := c.vc.Read(&c.img); !ok || c.img.Empty() {
			return errors.New("camera read failed")
		}
		img, err := c.img.ToImage()
		if err != nil {
			return fmt.Errorf("failed to convert frame: %w", err)
		}

		c.seq++
		frame = Frame{
			Seq:    c.seq,
			Width:  c.img.Cols(),
			Height: c.img.Rows(),
			Image:  img,
		}
		return nil
	})
	return frame, err
}

// Close waits for an in-flight Capture before freeing the device.
func (c *gocvCamera) Close() error {
	return c.h.release(func() error {
		c.img.Close()
		return c.vc.Close()
	})
}

// yoloSource runs a Darknet/ONNX YOLO network through OpenCV DNN.
type yoloSource struct {
	h      handle
	net    gocv.Net
	labels []string
}

// OpenModel loads a YOLO network. An empty labelsPath uses the COCO labels.
func OpenModel(modelPath, configPath, labelsPath string) (Source, error) {
	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s and %s", modelPath, configPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	labels := COCOLabels
	if labelsPath != "" {
		var err error
		if labels, err = LoadLabels(labelsPath); err != nil {
			net.Close()
			return nil, err
		}
	}

	return &yoloSource{net: net, labels: labels}, nil
}

func (s *yoloSource) Detect(ctx context.Context, frame Frame) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if frame.Image == nil {
		return nil, errors.New("frame has no image data")
	}

	mat, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	var out []Detection
	err = s.h.use(func() error {
		out = s.forward(mat, frame.Width, frame.Height)
		return nil
	})
	return out, err
}

// forward runs the network on an RGB frame. The caller holds the handle.
func (s *yoloSource) forward(mat gocv.Mat, width, height int) []Detection {
	// Input is already RGB, so no channel swap.
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(yoloInputSize, yoloInputSize),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	defer output.Close()

	fw := float64(width)
	fh := float64(height)
	bounds := image.Rect(0, 0, width, height)

	var out []Detection
	for i := 0; i < output.Rows(); i++ {
		row := output.RowRange(i, i+1)
		scores := row.ColRange(5, row.Cols())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(scores)

		if maxVal > minConfidence {
			// Rows are [cx, cy, w, h, objectness, class scores...], normalized.
			cx := float64(row.GetFloatAt(0, 0)) * fw
			cy := float64(row.GetFloatAt(0, 1)) * fh
			w := float64(row.GetFloatAt(0, 2)) * fw
			h := float64(row.GetFloatAt(0, 3)) * fh

			// Boxes can run past the frame edge; keep the visible part.
			r := image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)).Intersect(bounds)
			if !r.Empty() {
				out = append(out, Detection{
					Class: LookupLabel(s.labels, maxLoc.X),
					Score: float64(maxVal),
					BBox:  BBoxFromRect(r),
				})
			}
		}

		scores.Close()
		row.Close()
	}
	return out
}

// Close waits for an in-flight Detect before freeing the network.
func (s *yoloSource) Close() error {
	return s.h.release(s.net.Close)
}
