package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Snapshot is the durable cart state. The wire format is the legacy
// storefront shape: {"cartItems": [...], "totalQuantity": N, "totalPrice": N}
// with prices encoded as JSON numbers, so snapshots written by older clients
// stay readable.
type Snapshot struct {
	Items         []Line
	TotalQuantity int
	TotalPrice    decimal.Decimal
}

// EncodeSnapshot serializes the snapshot to its JSON wire format.
func EncodeSnapshot(snap Snapshot) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cartItems")
	e.ArrStart()
	for i := range snap.Items {
		encodeLine(&e, snap.Items[i])
	}
	e.ArrEnd()
	e.FieldStart("totalQuantity")
	e.Int(snap.TotalQuantity)
	e.FieldStart("totalPrice")
	encodeDecimal(&e, snap.TotalPrice)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeSnapshot parses a snapshot from its JSON wire format. Unknown fields
// are skipped so snapshots from newer clients still load.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	snap := Snapshot{TotalPrice: decimal.Zero}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "cartItems":
			return d.Arr(func(d *jx.Decoder) error {
				ln, err := decodeLine(d)
				if err != nil {
					return err
				}
				snap.Items = append(snap.Items, ln)
				return nil
			})
		case "totalQuantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			snap.TotalQuantity = v
			return nil
		case "totalPrice":
			return decodeDecimal(d, &snap.TotalPrice)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Snapshot{TotalPrice: decimal.Zero}, errors.Wrap(err, "decode cart snapshot")
	}
	return snap, nil
}

func encodeLine(e *jx.Encoder, ln Line) {
	e.ObjStart()
	e.FieldStart("_id")
	e.Str(ln.ProductID)
	e.FieldStart("name")
	e.Str(ln.Name)
	e.FieldStart("price")
	encodeDecimal(e, ln.Price)
	e.FieldStart("image")
	e.Str(ln.Image)
	e.FieldStart("moq")
	e.Int(ln.MinQuantity)
	e.FieldStart("specification")
	e.Str(ln.Specification)
	e.FieldStart("quantity")
	e.Int(ln.Quantity)
	e.ObjEnd()
}

func decodeLine(d *jx.Decoder) (Line, error) {
	ln := Line{Price: decimal.Zero}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "_id":
			ln.ProductID, err = d.Str()
		case "name":
			ln.Name, err = d.Str()
		case "price":
			err = decodeDecimal(d, &ln.Price)
		case "image":
			ln.Image, err = d.Str()
		case "moq":
			ln.MinQuantity, err = d.Int()
		case "specification":
			ln.Specification, err = d.Str()
		case "quantity":
			ln.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return ln, err
}

// encodeDecimal writes a decimal as a plain JSON number. decimal's own
// MarshalJSON quotes values, which older snapshot readers reject.
func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}

func decodeDecimal(d *jx.Decoder, out *decimal.Decimal) error {
	n, err := d.Num()
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(strings.Trim(string(n), `"`))
	if err != nil {
		return errors.Wrap(err, "parse decimal")
	}
	*out = v
	return nil
}
