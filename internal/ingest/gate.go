package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt 事件文件扩展名
const SourceExt = ".json"

// MatchIDFromFilename 比赛 ID 即文件名去掉扩展名，无需解析内容
func MatchIDFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DiscoverFiles 列出目录下的事件文件，按文件名排序
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取事件目录失败: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), SourceExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Pending 过滤出尚未入库的文件，保持输入顺序
func Pending(files []string, existing map[string]struct{}) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := existing[MatchIDFromFilename(f)]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// IDSet 切片转集合
func IDSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
