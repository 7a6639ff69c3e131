// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Pressgang")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "pressgang.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)
	viper.SetDefault("main.log.rotationday", time.Sunday.String())

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "webui.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)

	viper.SetDefault("backend.baseurl", "http://localhost:9000")
	viper.SetDefault("backend.apikey", "")
	viper.SetDefault("backend.timeout", 15)
	viper.SetDefault("backend.cachettl", 60)
	viper.SetDefault("backend.debug", false)

	viper.SetDefault("site.title", "Pressgang")
	viper.SetDefault("site.tagline", "")
	viper.SetDefault("site.baseurl", "http://localhost:8080")
	viper.SetDefault("site.theme", "auto")
	viper.SetDefault("site.postsperpage", 10)
	viper.SetDefault("site.locale", "en")

	viper.SetDefault("security.debug", false)
	viper.SetDefault("security.host", "")
	viper.SetDefault("security.autotls", false)
	viper.SetDefault("security.redirecttohttps", false)
	viper.SetDefault("security.sessionsecret", "")
	viper.SetDefault("security.sessionduration", 7*24*time.Hour)
	viper.SetDefault("security.basicauth.enabled", false)
	viper.SetDefault("security.basicauth.password", "")
	viper.SetDefault("security.googleauth.enabled", false)
	viper.SetDefault("security.githubauth.enabled", false)
	viper.SetDefault("security.allowsubnetbypass.enabled", false)
	viper.SetDefault("security.allowsubnetbypass.subnet", "")
}
