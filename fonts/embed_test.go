package fonts

import "testing"

func TestLoadBuiltins(t *testing.T) {
	for _, name := range Names() {
		data, err := Load("embed:" + name)
		if err != nil {
			t.Fatalf("加载 %s 失败: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("字体 %s 为空", name)
		}
	}
	if _, err := Load("sans-bold"); err != nil {
		t.Fatalf("不带前缀加载失败: %v", err)
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter/static/Inter-Regular.ttf"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
}
