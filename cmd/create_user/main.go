// create_user provisions an account from the command line, mainly for
// bootstrapping environments where registration is not exposed yet.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JetWong0810/football-betting-system/config"
	"github.com/JetWong0810/football-betting-system/models"
)

func main() {
	configPath := flag.String("config", os.Getenv("FOOTBALL_CONFIG"), "path to config file")
	nickname := flag.String("nickname", "", "display name (defaults to the username)")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: create_user [flags] <username> <password>")
		os.Exit(2)
	}
	username := flag.Arg(0)
	password := flag.Arg(1)
	if len(password) < 6 {
		fmt.Fprintln(os.Stderr, "password must be at least 6 characters")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect mysql: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	name := *nickname
	if name == "" {
		name = username
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Nickname:     name,
		Config:       &models.UserConfig{},
	}
	if err := db.Create(&user).Error; err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created user %s id=%d\n", username, user.ID)
}
