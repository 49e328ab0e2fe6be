package test_test

// ReadResult is single scripted result for MockReaderWriter.Read
type ReadResult struct {
	Read []byte
	Err  error
}

// WriteResult is single scripted result for MockReaderWriter.Write
type WriteResult struct {
	N   int
	Err error
}

// MockReaderWriter scripts io.Reader/io.Writer behavior for stream tests
type MockReaderWriter struct {
	Reads      []ReadResult
	Writes     []WriteResult
	Written    []byte
	readIndex  int
	writeIndex int
}

func (m *MockReaderWriter) Read(p []byte) (n int, err error) {
	r := m.Reads[m.readIndex]
	m.readIndex = m.readIndex + 1

	if r.Err != nil {
		return 0, r.Err
	}

	n = copy(p, r.Read)
	return n, nil
}

func (m *MockReaderWriter) Write(p []byte) (n int, err error) {
	m.Written = append(m.Written, p...)
	if m.writeIndex < len(m.Writes) {
		w := m.Writes[m.writeIndex]
		m.writeIndex = m.writeIndex + 1
		return w.N, w.Err
	}
	return len(p), nil
}
