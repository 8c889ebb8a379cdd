package mongo

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var tDecimal = reflect.TypeOf(decimal.Decimal{})

// decimalCodec stores decimal.Decimal as BSON Decimal128 so amounts keep
// their exact value in the database.
type decimalCodec struct{}

func (decimalCodec) EncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{Name: "DecimalEncodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}

	dec := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(dec.String())
	if err != nil {
		return fmt.Errorf("encode decimal %s: %w", dec.String(), err)
	}
	return vw.WriteDecimal128(d128)
}

func (decimalCodec) DecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{Name: "DecimalDecodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}

	var (
		dec decimal.Decimal
		err error
	)

	switch vr.Type() {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		d128, err = vr.ReadDecimal128()
		if err == nil {
			dec, err = decimal.NewFromString(d128.String())
		}
	case bsontype.String:
		var s string
		s, err = vr.ReadString()
		if err == nil {
			dec, err = decimal.NewFromString(s)
		}
	case bsontype.Int32:
		var i int32
		i, err = vr.ReadInt32()
		dec = decimal.NewFromInt32(i)
	case bsontype.Int64:
		var i int64
		i, err = vr.ReadInt64()
		dec = decimal.NewFromInt(i)
	case bsontype.Double:
		var f float64
		f, err = vr.ReadDouble()
		dec = decimal.NewFromFloat(f)
	case bsontype.Null:
		err = vr.ReadNull()
		dec = decimal.Zero
	default:
		return fmt.Errorf("cannot decode %v into decimal.Decimal", vr.Type())
	}
	if err != nil {
		return err
	}

	val.Set(reflect.ValueOf(dec))
	return nil
}

// NewRegistry returns the default BSON registry extended with the decimal codec.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	codec := decimalCodec{}
	reg.RegisterTypeEncoder(tDecimal, codec)
	reg.RegisterTypeDecoder(tDecimal, codec)
	return reg
}
