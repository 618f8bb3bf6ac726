// Package web 提供内嵌的浏览器端页面和静态资源
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFiles embed.FS

const htmlContentType = "text/html; charset=utf-8"

// Register 注册页面路由
// / 重定向到 /todos，/todos 与 /about 返回内嵌页面，/assets 提供 JS/CSS
func Register(router gin.IRoutes) error {
	todosPage, err := staticFiles.ReadFile("static/todos.html")
	if err != nil {
		return err
	}
	aboutPage, err := staticFiles.ReadFile("static/about.html")
	if err != nil {
		return err
	}
	assets, err := fs.Sub(staticFiles, "static/assets")
	if err != nil {
		return err
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/todos")
	})
	router.GET("/todos", page(todosPage))
	router.GET("/about", page(aboutPage))
	router.StaticFS("/assets", filesOnly{http.FS(assets)})

	return nil
}

// filesOnly 拒绝打开目录，/assets/ 不输出目录列表
type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

func page(body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, htmlContentType, body)
	}
}
