package scores

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/matzehuels/sitefinder/pkg/core/grid"
)

// Hash returns a SHA-256 fingerprint of the matrix dimensions and scores as
// a 64-character hex string. Windows hash by content, so a crop and an
// identical standalone matrix share a hash.
func Hash(m grid.Matrix) string {
	rows, cols := m.Dims()
	h := sha256.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(rows))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(cols))
	h.Write(buf[:])

	row := make([]byte, 4*cols)
	for r := range rows {
		for c := range cols {
			binary.LittleEndian.PutUint32(row[4*c:], uint32(int32(m.At(r, c))))
		}
		h.Write(row)
	}
	return hex.EncodeToString(h.Sum(nil))
}
