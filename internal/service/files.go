package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// FileManager is a thin pass-through to the gateway's account-wide file and
// cache operations, with display formatting for the front-ends. It holds no
// state of its own.
type FileManager struct {
	gateway Gateway
}

func NewFileManager(gateway Gateway) *FileManager {
	return &FileManager{gateway: gateway}
}

// List returns the raw remote file handles.
func (m *FileManager) List(ctx context.Context) ([]RemoteFile, error) {
	return m.gateway.ListFiles(ctx)
}

// ListFormatted renders the remote file listing as a display string.
func (m *FileManager) ListFormatted(ctx context.Context) string {
	files, err := m.gateway.ListFiles(ctx)
	if err != nil {
		slog.Error("list files failed", "error", err)
		return fmt.Sprintf("获取文件列表时发生错误: %v", err)
	}
	if len(files) == 0 {
		return "当前没有已上传的文件"
	}
	var b strings.Builder
	b.WriteString("=== 已上传文件列表 ===\n")
	for i, f := range files {
		fmt.Fprintf(&b, "%d. 文件名: %s\n", i+1, f.DisplayName)
		fmt.Fprintf(&b, "   文件URI: %s\n", f.URI)
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return b.String()
}

// DeleteByDisplayName deletes the first remote file whose display name
// matches and returns a status string for the UI.
func (m *FileManager) DeleteByDisplayName(ctx context.Context, displayName string) string {
	files, err := m.gateway.ListFiles(ctx)
	if err != nil {
		slog.Error("list files failed", "error", err)
		return fmt.Sprintf("删除文件时发生错误: %v", err)
	}
	for _, f := range files {
		if f.DisplayName != displayName {
			continue
		}
		if err := m.gateway.DeleteFile(ctx, f.Name); err != nil {
			slog.Error("delete file failed", "name", f.Name, "error", err)
			return fmt.Sprintf("删除文件失败: %s", displayName)
		}
		return fmt.Sprintf("成功删除文件: %s", displayName)
	}
	return fmt.Sprintf("未找到文件: %s", displayName)
}

// ClearCaches removes every cached document context on the account. An
// empty account is a success.
func (m *FileManager) ClearCaches(ctx context.Context) string {
	n, err := m.gateway.ClearCaches(ctx)
	if err != nil {
		slog.Error("clear caches failed", "deleted", n, "error", err)
		return fmt.Sprintf("清理缓存时发生错误: %v", err)
	}
	return fmt.Sprintf("成功清理所有缓存（共 %d 个）", n)
}
