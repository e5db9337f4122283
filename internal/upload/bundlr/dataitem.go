// internal/upload/bundlr/dataitem.go
package bundlr

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

const (
	signatureTypeEd25519 = 2
	signatureLength      = 64
	ownerLength          = 32
)

// Tag is a data item tag.
type Tag struct {
	Name  string
	Value string
}

// DataItem is a signed ANS-104 bundle item.
type DataItem struct {
	ID        string
	Signature []byte
	Owner     []byte
	Tags      []Tag
	Data      []byte

	rawTags []byte
}

// NewDataItem signs data with key. Target and anchor are left empty.
func NewDataItem(key solana.PrivateKey, data []byte, tags []Tag) (*DataItem, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid ed25519 key")
	}
	item := &DataItem{
		Owner:   key.PublicKey().Bytes(),
		Tags:    tags,
		Data:    data,
		rawTags: encodeTags(tags),
	}
	item.Signature = ed25519.Sign(ed25519.PrivateKey(key), item.SignatureData())
	item.ID = itemID(item.Signature)
	return item, nil
}

// SignatureData is the deep hash the signature covers.
func (d *DataItem) SignatureData() []byte {
	return deepHash([]any{
		[]byte("dataitem"),
		[]byte("1"),
		[]byte(strconv.Itoa(signatureTypeEd25519)),
		d.Owner,
		[]byte{}, // target
		[]byte{}, // anchor
		d.rawTags,
		d.Data,
	})
}

// Bytes is the binary encoding posted to the node.
func (d *DataItem) Bytes() []byte {
	buf := make([]byte, 0, 2+signatureLength+ownerLength+2+16+len(d.rawTags)+len(d.Data))
	buf = binary.LittleEndian.AppendUint16(buf, signatureTypeEd25519)
	buf = append(buf, d.Signature...)
	buf = append(buf, d.Owner...)
	buf = append(buf, 0, 0) // no target, no anchor
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(d.Tags)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(d.rawTags)))
	buf = append(buf, d.rawTags...)
	return append(buf, d.Data...)
}

func itemID(signature []byte) string {
	sum := sha256.Sum256(signature)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// encodeTags writes the Avro array of {name, value} byte records.
func encodeTags(tags []Tag) []byte {
	if len(tags) == 0 {
		return nil
	}
	buf := binary.AppendVarint(nil, int64(len(tags)))
	for _, tag := range tags {
		buf = binary.AppendVarint(buf, int64(len(tag.Name)))
		buf = append(buf, tag.Name...)
		buf = binary.AppendVarint(buf, int64(len(tag.Value)))
		buf = append(buf, tag.Value...)
	}
	return append(buf, 0)
}

// deepHash is the Arweave SHA-384 deep hash over nested byte lists.
func deepHash(chunk any) []byte {
	switch v := chunk.(type) {
	case []any:
		acc := sha384([]byte("list" + strconv.Itoa(len(v))))
		for _, c := range v {
			acc = sha384(append(acc, deepHash(c)...))
		}
		return acc
	case []byte:
		tagged := sha384([]byte("blob" + strconv.Itoa(len(v))))
		return sha384(append(tagged, sha384(v)...))
	default:
		panic("deepHash: unsupported chunk type")
	}
}

func sha384(b []byte) []byte {
	sum := sha512.Sum384(b)
	return sum[:]
}
