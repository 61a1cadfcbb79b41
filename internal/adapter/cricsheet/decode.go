package cricsheet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"CricBase/internal/model"
)

// Decode 解析单个事件文件
func Decode(r io.Reader) (*model.CricsheetMatch, error) {
	var m model.CricsheetMatch
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("解析事件文件失败: %w", err)
	}
	return &m, nil
}

// DecodeFile 打开并解析事件文件
func DecodeFile(path string) (*model.CricsheetMatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开事件文件失败: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
