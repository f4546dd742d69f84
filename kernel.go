package sobel

// maxMagnitude is the clamp value of edge magnitude.
const maxMagnitude = 255

var (
	// vKernel detects vertical edges.
	vKernel = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	// hKernel detects horizontal edges.
	hKernel = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Magnitude returns edge magnitude of the interior pixel (i, j) of in.
// Pixel must satisfy 1 <= i <= in.Rows-2 and 1 <= j <= in.Cols-2.
//
// Magnitude is |Gv|+|Gh| clamped to 255.
func Magnitude(in *Plane, i, j int) uint8 {
	return magnitude(in.Row(i-1), in.Row(i), in.Row(i+1), j)
}

// magnitude computes the edge magnitude at column j of mid row.
func magnitude(up, mid, down []uint8, j int) uint8 {
	rows := [3][]uint8{up, mid, down}
	sum := abs(convolve(&vKernel, &rows, j)) + abs(convolve(&hKernel, &rows, j))
	if sum > maxMagnitude {
		return maxMagnitude
	}
	return uint8(sum)
}

// convolve applies 3x3 kernel centered at column j.
func convolve(k *[3][3]int, rows *[3][]uint8, j int) int {
	var g int
	for r := range k {
		row := rows[r][j-1 : j+2]
		g += k[r][0]*int(row[0]) + k[r][1]*int(row[1]) + k[r][2]*int(row[2])
	}
	return g
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Reference computes the edge map of in sequentially, in the calling
// goroutine. Result has in.Rows-2 rows and in.Cols-2 columns.
func Reference(in *Plane) *Plane {
	out := NewPlane(in.Rows-2, in.Cols-2)
	Process(RowBand{Start: 1, End: in.Rows - 1}, in, out)
	return out
}
