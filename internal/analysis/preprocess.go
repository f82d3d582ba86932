package analysis

import (
	"image"
	"math"
)

// gaussian3 is the 3x3 smoothing kernel; weights sum to 16.
var gaussian3 = [3][3]int{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

// Preprocess smooths the colour channels of every interior pixel with a 3x3
// Gaussian kernel. Border pixels and alpha are copied unchanged.
func Preprocess(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sum [3]int
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					wgt := gaussian3[ky+1][kx+1]
					i := (y+ky)*src.Stride + (x+kx)*4
					sum[0] += int(src.Pix[i]) * wgt
					sum[1] += int(src.Pix[i+1]) * wgt
					sum[2] += int(src.Pix[i+2]) * wgt
				}
			}
			o := y*dst.Stride + x*4
			for c := 0; c < 3; c++ {
				dst.Pix[o+c] = uint8(math.Round(float64(sum[c]) / 16))
			}
		}
	}
	return dst
}

// luminance returns the rounded channel average of every pixel, row-major.
func luminance(img *image.NRGBA) []float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			gray[y*w+x] = math.Round(float64(int(row[i])+int(row[i+1])+int(row[i+2])) / 3)
		}
	}
	return gray
}
