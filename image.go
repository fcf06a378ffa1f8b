/*
	SectorMapper, top-down map renderer for voxel worlds
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/nfnt/resize"
)

var errUnknownFormat = errors.New("unknown image format")

// imageFormat maps file extension or url suffix to encoder name.
func imageFormat(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = strings.ToLower(name)
	}
	switch ext {
	case "png":
		return "png", nil
	case "jpg", "jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownFormat, ext)
	}
}

func encodeImage(w io.Writer, format string, img image.Image) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func writeImageFile(path string, img image.Image) error {
	format, err := imageFormat(path)
	if err != nil {
		return err
	}
	buffer := new(bytes.Buffer)
	if err := encodeImage(buffer, format, img); err != nil {
		return err
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0644); err != nil {
		return err
	}
	log.Printf("Saved %dx%d %s image to %q (%s)", img.Bounds().Dx(), img.Bounds().Dy(), format, path, humanize.Bytes(uint64(buffer.Len())))
	return nil
}

func writeImage(w http.ResponseWriter, format string, img image.Image) {
	buffer := new(bytes.Buffer)
	if err := encodeImage(buffer, format, img); err != nil {
		log.Printf("Unable to encode image: %s", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/"+format)
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		log.Printf("Unable to write image: %s", err.Error())
	}
}

// scaleImage resizes with nearest neighbour so node edges stay sharp.
func scaleImage(img *image.RGBA, factor float64) *image.RGBA {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := uint(float64(b.Dx()) * factor)
	h := uint(float64(b.Dy()) * factor)
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	scaled := resize.Resize(w, h, img, resize.NearestNeighbor)
	if rgba, ok := scaled.(*image.RGBA); ok {
		return rgba
	}
	sb := scaled.Bounds()
	ret := image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	draw.Draw(ret, ret.Rect, scaled, sb.Min, draw.Src)
	return ret
}
