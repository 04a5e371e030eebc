package vdfutil

import (
	"io"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
	"yunion.io/x/pkg/errors"
)

// Parse 解析 VDF (KeyValues) 文本
func Parse(r io.Reader) (map[string]interface{}, error) {
	data, err := vdf.NewParser(r).Parse()
	if err != nil {
		return nil, errors.Wrap(err, "parse vdf")
	}
	return data, nil
}

// GetNode 按路径逐层进入子节点
func GetNode(data map[string]interface{}, path ...string) (map[string]interface{}, error) {
	node := data
	for i, key := range path {
		child, ok := node[key]
		if !ok {
			return nil, errors.Errorf("no %s section", strings.Join(path[:i+1], "/"))
		}
		m, ok := child.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("%s is not a section", strings.Join(path[:i+1], "/"))
		}
		node = m
	}
	return node, nil
}

// GetString returns the string under key and whether it was present.
func GetString(node map[string]interface{}, key string) (string, bool, error) {
	v, ok := node[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, errors.Errorf("%s is a section, want a value", key)
	}
	return s, true, nil
}

// GetInt 读取整数值，VDF 中所有值都是字符串
func GetInt(node map[string]interface{}, key string) (int, bool, error) {
	s, ok, err := GetString(node, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, errors.Wrapf(err, "%s", key)
	}
	return n, true, nil
}
