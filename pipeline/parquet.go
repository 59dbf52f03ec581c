package pipeline

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/gazetools/gazeclean"
)

// writeCleanedParquet writes the table with a schema built from its channel
// set, one DOUBLE column per channel plus the time index. NaN cells are
// written as-is; parquet DOUBLE carries them natively.
func writeCleanedParquet(path string, s *gazeclean.Samples) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}

	md := make([]string, 0, 1+len(s.Fields))
	md = append(md, "name=time, type=DOUBLE")
	for _, field := range s.Fields {
		md = append(md, fmt.Sprintf("name=%s, type=DOUBLE", field))
	}
	pw, err := writer.NewCSVWriter(md, fw, 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range s.Time {
		rec := make([]interface{}, 0, len(md))
		rec = append(rec, s.Time[i])
		for _, field := range s.Fields {
			rec = append(rec, s.Data[field][i])
		}
		if err := pw.Write(rec); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
