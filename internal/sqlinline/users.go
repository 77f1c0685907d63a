package sqlinline

const QUpsertGoogleUser = `--sql 71753fe9-0467-4142-96b6-fc0487830475
with incoming as (
    select
        $1::text as google_sub,
        $2::text as email,
        $3::text as name,
        $4::text as picture,
        $5::text as locale
)
insert into users (id, google_sub, email, name, avatar_url, role, locale_pref, created_at, updated_at)
values (gen_random_uuid(), (select google_sub from incoming), (select email from incoming), (select name from incoming),
        (select picture from incoming), 'officer', (select locale from incoming), now(), now())
on conflict (email) do update set
    name = excluded.name,
    avatar_url = excluded.avatar_url,
    locale_pref = excluded.locale_pref,
    google_sub = excluded.google_sub,
    updated_at = now()
returning id, role;
`

const QSelectUserByID = `--sql 6df667e2-e0c0-4719-971f-7f5585c12657
select id, google_sub, email, name, coalesce(avatar_url, ''), role, coalesce(locale_pref, 'en'), created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql e7288d2b-ae51-42eb-a6bc-a2314d343929
select id, email, role
from users
where email = $1::text
limit 1;
`

const QUpdateUserRole = `--sql 9878cb5b-a4aa-46ff-8e30-7104932e6d77
update users
set role = $2::text, updated_at = now()
where id = $1::uuid
returning id, email, role;
`
