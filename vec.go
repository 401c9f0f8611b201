package actioncal

import "github.com/unixpickle/anyvec"

func vecToFloats(vec anyvec.Vector) []float64 {
	var res []float64
	switch data := vec.Data().(type) {
	case []float64:
		res = data
	case []float32:
		for _, x := range data {
			res = append(res, float64(x))
		}
	default:
		panic("unsupported numeric type")
	}
	return res
}

func numToFloat(num anyvec.Numeric) float64 {
	switch num := num.(type) {
	case float64:
		return num
	case float32:
		return float64(num)
	default:
		panic("unsupported numeric type")
	}
}

func floatsToVec(c anyvec.Creator, data []float64) anyvec.Vector {
	return c.MakeVectorData(c.MakeNumericList(data))
}

// joinRows concatenates two row-major batches row by row,
// producing rows of the form [a_i, b_i].
func joinRows(c anyvec.Creator, a, b anyvec.Vector, batch int) anyvec.Vector {
	aData := vecToFloats(a)
	bData := vecToFloats(b)
	aCols := len(aData) / batch
	bCols := len(bData) / batch
	joined := make([]float64, 0, len(aData)+len(bData))
	for i := 0; i < batch; i++ {
		joined = append(joined, aData[i*aCols:(i+1)*aCols]...)
		joined = append(joined, bData[i*bCols:(i+1)*bCols]...)
	}
	return floatsToVec(c, joined)
}

// clipSlice clamps every component to [-bound, bound].
func clipSlice(data []float64, bound float64) {
	for i, x := range data {
		if x < -bound {
			data[i] = -bound
		} else if x > bound {
			data[i] = bound
		}
	}
}
