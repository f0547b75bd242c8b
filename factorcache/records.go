package factorcache

import (
	"encoding/binary"
	"math/big"

	"github.com/kryc/aliquot/bignum"
	"github.com/kryc/aliquot/primefactors"
)

const (
	countFieldBytes    = 4 // factorCount / exponent width
	indexRecordBytes   = bignum.Bytes + countFieldBytes
	perFactorFieldSize = bignum.Bytes + countFieldBytes
)

// factorRecordSize returns sizeof(FactorRecord(k)) = WIDTH_BYTES + k *
// (WIDTH_BYTES + sizeof(exponent)).
func factorRecordSize(k int) int {
	return bignum.Bytes + k*perFactorFieldSize
}

// indexRecord is (product, factorCount), both fixed width.
type indexRecord struct {
	product     bignum.BigNum
	factorCount uint32
}

func encodeIndexRecord(r indexRecord) []byte {
	buf := make([]byte, indexRecordBytes)
	r.product.Encode(buf)
	binary.LittleEndian.PutUint32(buf[bignum.Bytes:], r.factorCount)
	return buf
}

func decodeIndexRecord(buf []byte) indexRecord {
	return indexRecord{
		product:     bignum.Decode(buf),
		factorCount: binary.LittleEndian.Uint32(buf[bignum.Bytes:]),
	}
}

// encodeFactorRecord serializes a product and its K distinct prime factors
// in the order given.
func encodeFactorRecord(product bignum.BigNum, factors []primefactors.Factor) ([]byte, error) {
	size := factorRecordSize(len(factors))
	buf := make([]byte, size)
	product.Encode(buf)
	off := bignum.Bytes
	for _, fac := range factors {
		primeBN, err := bignum.FromBigInt(fac.Prime)
		if err != nil {
			return nil, err
		}
		primeBN.Encode(buf[off:])
		binary.LittleEndian.PutUint32(buf[off+bignum.Bytes:], uint32(fac.Exponent))
		off += perFactorFieldSize
	}
	return buf, nil
}

// decodeFactorRecord parses a FactorRecord(k) and materializes it as a
// PrimeFactors multiset.
func decodeFactorRecord(buf []byte, k int) (bignum.BigNum, *primefactors.Factors) {
	product := bignum.Decode(buf)
	factors := primefactors.New()
	off := bignum.Bytes
	for i := 0; i < k; i++ {
		primeBN := bignum.Decode(buf[off:])
		exponent := binary.LittleEndian.Uint32(buf[off+bignum.Bytes:])
		factors.AddFactorN(primeBN.ToBigInt(), uint64(exponent))
		off += perFactorFieldSize
	}
	return product, factors
}

// bucketOf returns product mod 256, the index shard this product lives in.
func bucketOf(product *big.Int) uint8 {
	mod := new(big.Int).Mod(product, big.NewInt(256))
	return uint8(mod.Uint64())
}
