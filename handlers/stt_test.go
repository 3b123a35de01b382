package handlers

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildWave(audioFormat, channels, bits uint16, sampleRate uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, audioFormat)
	binary.Write(&buf, binary.LittleEndian, channels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate*uint32(channels)*uint32(bits)/8)
	binary.Write(&buf, binary.LittleEndian, channels*bits/8)
	binary.Write(&buf, binary.LittleEndian, bits)
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	return buf.Bytes()
}

func TestParseWaveHeader(t *testing.T) {
	data := buildWave(1, 1, 16, 16000)
	h, err := parseWaveHeader(data)
	if err != nil {
		t.Fatalf("parseWaveHeader: %v", err)
	}
	if h.SampleRate != 16000 || h.NumChannels != 1 || h.BitsPerSample != 16 {
		t.Errorf("header = %+v, fields do not round-trip", h)
	}
	if err := validateWave(h); err != nil {
		t.Errorf("validateWave: %v", err)
	}
}

func TestParseWaveHeaderRejectsGarbage(t *testing.T) {
	if _, err := parseWaveHeader([]byte("too short")); err == nil {
		t.Error("short input should fail")
	}
	data := buildWave(1, 1, 16, 16000)
	copy(data[:4], "JUNK")
	if _, err := parseWaveHeader(data); err == nil {
		t.Error("non-RIFF input should fail")
	}
}

func TestValidateWaveConstraints(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
	}{
		{"compressed", buildWave(3, 1, 16, 16000)},
		{"stereo", buildWave(1, 2, 16, 16000)},
		{"8-bit", buildWave(1, 1, 8, 16000)},
		{"sample rate too low", buildWave(1, 1, 16, 4000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := parseWaveHeader(tc.header)
			if err != nil {
				t.Fatalf("parseWaveHeader: %v", err)
			}
			if err := validateWave(h); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}
