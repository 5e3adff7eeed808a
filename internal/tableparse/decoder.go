package tableparse

import "log/slog"

// Decoder turns a located table segment into service records, falling back
// between decoding strategies until one produces rows. Decoding never fails;
// an unrecognizable segment yields an empty slice.
type Decoder struct {
	Logger *slog.Logger
}

func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{Logger: logger}
}

// Decode runs the strategy chain for the segment's format. FORMAT_A tries the
// header-block layout first, then chunk grouping, then the FORMAT_B decoder
// as a last resort; FORMAT_B runs its own decoder first and the FORMAT_A
// strategies after.
func (d *Decoder) Decode(seg Segment) []ServiceRecord {
	var chain []struct {
		name string
		fn   func([]string) []ServiceRecord
	}
	if seg.Format == FormatB {
		chain = []struct {
			name string
			fn   func([]string) []ServiceRecord
		}{
			{"format_b", decodeFormatB},
			{"header_block", decodeHeaderBlock},
			{"chunk_group", decodeFormatA},
		}
	} else {
		chain = []struct {
			name string
			fn   func([]string) []ServiceRecord
		}{
			{"header_block", decodeHeaderBlock},
			{"chunk_group", decodeFormatA},
			{"format_b", decodeFormatB},
		}
	}

	for _, step := range chain {
		if records := step.fn(seg.Lines); len(records) > 0 {
			d.Logger.Debug("tableparse.decode.done",
				"strategy", step.name, "format", string(seg.Format), "records", len(records))
			return records
		}
	}
	d.Logger.Warn("tableparse.decode.empty", "format", string(seg.Format), "lines", len(seg.Lines))
	return nil
}

// ExtractServices is the one-call path: segment the document lines and decode
// whatever table is found.
func ExtractServices(lines []string, logger *slog.Logger) []ServiceRecord {
	seg := NewSegmenter(logger).Extract(lines)
	return NewDecoder(logger).Decode(seg)
}
