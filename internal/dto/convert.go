package dto

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// dateOnly renders time.Time sources into string targets as YYYY-MM-DD.
var dateOnly = copier.Option{
	Converters: []copier.TypeConverter{{
		SrcType: time.Time{},
		DstType: copier.String,
		Fn: func(src interface{}) (interface{}, error) {
			return src.(time.Time).Format(timeutil.DateLayout), nil
		},
	}},
}

func mapSlice[M any, D any](in []M, fn func(M) D) []D {
	out := make([]D, 0, len(in))
	for _, m := range in {
		out = append(out, fn(m))
	}
	return out
}
